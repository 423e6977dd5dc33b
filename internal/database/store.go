package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"

	"inventory/internal/config"
	"inventory/internal/docstore"
)

// ProductSchema is the schema of the "products" collection.
var ProductSchema = docstore.Schema{
	Name:         "products",
	PrimaryKey:   "id",
	MaxKeyLength: 5,
	Required:     []string{"id", "name", "category"},
	RequireAnyOf: []string{"value", "price"},
}

// Store owns the storage handles for the process. It is opened once at
// startup and passed to whoever needs it.
type Store struct {
	Products docstore.Collection

	client *mongo.Client
}

func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		log.Println("Open: using embedded in-memory storage")
		return &Store{Products: docstore.NewMemoryCollection(ProductSchema)}, nil

	case config.StorageMongo:
		client, err := Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}

		db := client.Database(cfg.DBName)
		log.Println("MongoDB connected to:", db.Name())

		if err := EnsureProductIndexes(db); err != nil {
			log.Printf("product index warning: %v", err)
		}

		return &Store{
			Products: docstore.NewMongoCollection(db, ProductSchema),
			client:   client,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage)
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
