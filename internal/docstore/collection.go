// Package docstore provides a small document collection abstraction with an
// embedded in-memory engine and a MongoDB engine that share one query model.
package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

type Collection interface {
	Name() string
	// Insert stores doc, which is any value bson can marshal into a document.
	Insert(ctx context.Context, doc any) error
	// Find returns the matching documents. A nil query matches everything.
	Find(ctx context.Context, q *Query) ([]bson.Raw, error)
	// FindOne looks a document up by primary key. It returns nil, nil when
	// there is no such document.
	FindOne(ctx context.Context, key string) (bson.Raw, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
