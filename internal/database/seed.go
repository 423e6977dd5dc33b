package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"inventory/internal/docstore"
	"inventory/internal/models"
)

//go:embed seed_products.json
var seedProducts []byte

// InitialProducts returns the catalog loaded into an empty store.
func InitialProducts() ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal(seedProducts, &products); err != nil {
		return nil, fmt.Errorf("decode seed products: %w", err)
	}
	return products, nil
}

// SeedProducts inserts products one by one when coll is empty and reports
// how many were inserted.
func SeedProducts(ctx context.Context, coll docstore.Collection, products []models.Product) (int, error) {
	count, err := coll.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	if count > 0 {
		log.Printf("SeedProducts: %s already holds %d records, skipping", coll.Name(), count)
		return 0, nil
	}

	for i, p := range products {
		if err := coll.Insert(ctx, p); err != nil {
			return i, fmt.Errorf("seed product %q: %w", p.ID, err)
		}
	}

	log.Println("Added initial product records")
	return len(products), nil
}
