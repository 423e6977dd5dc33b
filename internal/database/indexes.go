package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureProductIndexes creates the unique primary key index the product
// schema relies on, plus an index for the price-ordered listing.
func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(ProductSchema.Name).Indexes()

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: ProductSchema.PrimaryKey, Value: 1}},
			Options: options.Index().
				SetName("id_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "price", Value: 1}},
			Options: options.Index().SetName("price_index"),
		},
	}

	log.Println("EnsureProductIndexes: creating id_unique and price_index indexes")
	if _, err := indexes.CreateMany(ctx, indexModels); err != nil {
		log.Println("EnsureProductIndexes: index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: indexes created")
	return nil
}
