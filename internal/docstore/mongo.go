package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var _ Collection = (*MongoCollection)(nil)

// MongoCollection runs queries against a MongoDB collection named after the
// schema. The schema is checked client-side before every insert; primary key
// uniqueness relies on a unique index (see database.EnsureProductIndexes).
type MongoCollection struct {
	schema Schema
	coll   *mongo.Collection
}

func NewMongoCollection(db *mongo.Database, schema Schema) *MongoCollection {
	return &MongoCollection{
		schema: schema,
		coll:   db.Collection(schema.Name),
	}
}

func (c *MongoCollection) Name() string {
	return c.schema.Name
}

func (c *MongoCollection) Insert(ctx context.Context, doc any) error {
	const op = "MongoCollection.Insert"

	raw, err := toRaw(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.schema.Validate(raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := c.coll.InsertOne(ctx, raw); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w: %w", op, ErrDuplicateKey, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *MongoCollection) Find(ctx context.Context, q *Query) ([]bson.Raw, error) {
	const op = "MongoCollection.Find"

	findOptions := options.Find()
	if sort := q.SortDocument(); len(sort) > 0 {
		findOptions.SetSort(sort)
	}
	if limit := q.MaxResults(); limit > 0 {
		findOptions.SetLimit(limit)
	}
	if projection := q.Projection(); projection != nil {
		findOptions.SetProjection(projection)
	}

	cursor, err := c.coll.Find(ctx, q.Filter(), findOptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	docs := make([]bson.Raw, 0)
	for cursor.Next(ctx) {
		docs = append(docs, append(bson.Raw(nil), cursor.Current...))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docs, nil
}

func (c *MongoCollection) FindOne(ctx context.Context, key string) (bson.Raw, error) {
	const op = "MongoCollection.FindOne"

	raw, err := c.coll.FindOne(ctx, bson.D{{Key: c.schema.PrimaryKey, Value: key}}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

func (c *MongoCollection) Count(ctx context.Context) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("MongoCollection.Count: %w", err)
	}
	return n, nil
}

func (c *MongoCollection) Ping(ctx context.Context) error {
	return c.coll.Database().Client().Ping(ctx, readpref.Primary())
}
