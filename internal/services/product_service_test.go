package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"inventory/internal/database"
	"inventory/internal/docstore"
	"inventory/internal/models"
)

func ptr[T any](v T) *T { return &v }

func newCatalog(t *testing.T, docs ...bson.M) (*ProductService, *docstore.MemoryCollection) {
	t.Helper()
	coll := docstore.NewMemoryCollection(database.ProductSchema)
	for _, d := range docs {
		require.NoError(t, coll.Insert(context.Background(), d))
	}
	return NewProductService(coll), coll
}

func catalogDocs() []bson.M {
	return []bson.M{
		{"id": "00001", "name": `3.5" SATA Drive`, "category": "Storage", "brand": "Seagate", "price": 54.5, "description": "HDD", "sku": "SEA-1"},
		{"id": "00002", "name": "3x5 SATA Drive", "category": "Storage", "brand": "WD", "price": 40.0, "sku": "WD-1"},
		{"id": "00003", "name": "Wireless Mouse", "category": "Electronics", "brand": "Logitech", "price": 19.99, "tags": bson.A{"mouse"}},
		{"id": "00004", "name": "Gaming Mouse", "category": "Electronics", "brand": "Logitech", "price": int32(60)},
		{"id": "00005", "name": "Desk", "category": "Furniture", "brand": "Flexispot", "price": 499.0, "description": ""},
		{"id": "00006", "name": "Legacy Chair", "category": "Furniture", "value": 120.0},
	}
}

func TestFindProductsFilters(t *testing.T) {
	svc, _ := newCatalog(t, catalogDocs()...)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.ProductFilter
		want   []string
	}{
		{"NoFilter", models.ProductFilter{}, []string{"00006", "00003", "00002", "00001", "00004", "00005"}},
		{"Category", models.ProductFilter{Category: "Electronics"}, []string{"00003", "00004"}},
		{"Brand", models.ProductFilter{Brand: "Logitech"}, []string{"00003", "00004"}},
		{"CategoryIsExact", models.ProductFilter{Category: "electronics"}, []string{}},
		{"NameSubstring", models.ProductFilter{Name: "Mouse"}, []string{"00003", "00004"}},
		{"NameIsCaseSensitive", models.ProductFilter{Name: "mouse"}, []string{}},
		{"NameLiteralMetacharacters", models.ProductFilter{Name: `3.5" SATA`}, []string{"00001"}},
		{"NameLiteralDot", models.ProductFilter{Name: "3.5"}, []string{"00001"}},
		{"NameLiteralBrackets", models.ProductFilter{Name: "[0-9]"}, []string{}},
		{"MinPrice", models.ProductFilter{MinPrice: ptr(54.5)}, []string{"00001", "00004", "00005"}},
		{"MaxPrice", models.ProductFilter{MaxPrice: ptr(40.0)}, []string{"00003", "00002"}},
		{"Range", models.ProductFilter{MinPrice: ptr(20.0), MaxPrice: ptr(60.0)}, []string{"00002", "00001", "00004"}},
		{"Combined", models.ProductFilter{Name: "SATA", Brand: "WD", Category: "Storage", MaxPrice: ptr(100.0)}, []string{"00002"}},
		{"EmptyRange", models.ProductFilter{MinPrice: ptr(100.0), MaxPrice: ptr(10.0)}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.FindProducts(ctx, tt.filter)
			require.NoError(t, err)
			require.NotNil(t, got)

			ids := make([]string, 0, len(got))
			for _, p := range got {
				require.NotNil(t, p.ID)
				ids = append(ids, *p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFindProductsProperties(t *testing.T) {
	svc, _ := newCatalog(t, catalogDocs()...)
	ctx := context.Background()

	var filters []models.ProductFilter
	for _, name := range []string{"", "Mouse", "SATA", "3.5"} {
		for _, category := range []string{"", "Storage", "Electronics"} {
			for _, brand := range []string{"", "Logitech", "WD"} {
				for _, bounds := range [][2]*float64{{nil, nil}, {ptr(20.0), nil}, {nil, ptr(60.0)}, {ptr(19.99), ptr(54.5)}} {
					filters = append(filters, models.ProductFilter{
						Name: name, Category: category, Brand: brand,
						MinPrice: bounds[0], MaxPrice: bounds[1],
					})
				}
			}
		}
	}

	allowed := map[string]bool{}
	for _, f := range models.SummaryFieldNames() {
		allowed[f] = true
	}

	for _, f := range filters {
		got, err := svc.FindProducts(ctx, f)
		require.NoError(t, err)

		prev := -1.0
		for _, p := range got {
			if f.Name != "" {
				require.NotNil(t, p.Name)
				assert.Contains(t, *p.Name, f.Name)
			}
			if f.Category != "" {
				assert.Equal(t, f.Category, *p.Category)
			}
			if f.Brand != "" {
				assert.Equal(t, f.Brand, *p.Brand)
			}
			if f.MinPrice != nil || f.MaxPrice != nil {
				require.NotNil(t, p.Price)
			}
			if f.MinPrice != nil {
				assert.GreaterOrEqual(t, *p.Price, *f.MinPrice)
			}
			if f.MaxPrice != nil {
				assert.LessOrEqual(t, *p.Price, *f.MaxPrice)
			}
			if p.Price != nil {
				assert.GreaterOrEqual(t, *p.Price, prev, "results must be ordered by price")
				prev = *p.Price
			}

			body, err := json.Marshal(p)
			require.NoError(t, err)
			var keys map[string]any
			require.NoError(t, json.Unmarshal(body, &keys))
			for k := range keys {
				assert.True(t, allowed[k], "unexpected field %q", k)
			}
		}
	}
}

func TestFindProductsProjection(t *testing.T) {
	svc, _ := newCatalog(t, catalogDocs()...)

	got, err := svc.FindProducts(context.Background(), models.ProductFilter{Category: "Furniture"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// legacy record: no brand, no price, no description
	legacy, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"00006","name":"Legacy Chair","category":"Furniture"}`, string(legacy))

	// present but empty description is kept
	desk, err := json.Marshal(got[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"00005","name":"Desk","category":"Furniture","brand":"Flexispot","price":499,"description":""}`, string(desk))
}

func TestSummarizeIsIdempotent(t *testing.T) {
	raw, err := bson.Marshal(catalogDocs()[0])
	require.NoError(t, err)

	once, err := summarize(raw)
	require.NoError(t, err)

	again, err := bson.Marshal(once)
	require.NoError(t, err)
	twice, err := summarize(again)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestGetProductByID(t *testing.T) {
	svc, _ := newCatalog(t, catalogDocs()...)
	ctx := context.Background()

	p, err := svc.GetProductByID(ctx, "00003")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Wireless Mouse", p.Name)
	assert.Equal(t, models.StringList{"mouse"}, p.Tags)

	missing, err := svc.GetProductByID(ctx, "77777")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAddProductAssignsIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyStore", func(t *testing.T) {
		svc, _ := newCatalog(t)
		p, err := svc.AddProduct(ctx, models.Product{ID: "ignored", Name: "Lamp", Category: "Home", Price: ptr(10.0)})
		require.NoError(t, err)
		assert.Equal(t, "00001", p.ID)
	})

	t.Run("AfterHighest", func(t *testing.T) {
		svc, _ := newCatalog(t,
			bson.M{"id": "00007", "name": "a", "category": "c", "price": 1.0},
			bson.M{"id": "00042", "name": "b", "category": "c", "price": 1.0},
			bson.M{"id": "00013", "name": "c", "category": "c", "price": 1.0},
		)
		p, err := svc.AddProduct(ctx, models.Product{Name: "Lamp", Category: "Home", Price: ptr(10.0)})
		require.NoError(t, err)
		assert.Equal(t, "00043", p.ID)
	})

	t.Run("Sequential", func(t *testing.T) {
		svc, _ := newCatalog(t)
		for i := 1; i <= 12; i++ {
			p, err := svc.AddProduct(ctx, models.Product{Name: "Lamp", Category: "Home", Price: ptr(10.0)})
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("%05d", i), p.ID)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		svc, _ := newCatalog(t)
		in := models.Product{
			Name:        "Lamp",
			Category:    "Home",
			Brand:       "Ikea",
			Price:       ptr(24.5),
			Description: "Desk lamp",
			Tags:        models.StringList{"light"},
			Dimensions:  &models.Dimensions{Length: 10, Width: 10, Height: 40, Unit: "cm"},
			Rating:      &models.Rating{Average: 4.2, Count: 9},

			Weight:        ptr(0.0),
			StockQuantity: ptr(0),
			RegularPrice:  ptr(0.0),
			Discount:      ptr(0.0),
		}
		added, err := svc.AddProduct(ctx, in)
		require.NoError(t, err)

		got, err := svc.GetProductByID(ctx, added.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		in.ID = "00001"
		assert.Equal(t, in, *got)
	})

	t.Run("ValueOnlyKeepsPriceAbsent", func(t *testing.T) {
		svc, coll := newCatalog(t)
		added, err := svc.AddProduct(ctx, models.Product{Name: "Chair", Category: "Furniture", Value: ptr(120.0)})
		require.NoError(t, err)
		assert.Nil(t, added.Price)

		doc, err := coll.FindOne(ctx, added.ID)
		require.NoError(t, err)
		_, err = doc.LookupErr("price")
		require.ErrorIs(t, err, bsoncore.ErrElementNotFound)

		got, err := svc.GetProductByID(ctx, added.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.Price)
		assert.Equal(t, ptr(120.0), got.Value)

		cheap, err := svc.FindProducts(ctx, models.ProductFilter{MaxPrice: ptr(0.0)})
		require.NoError(t, err)
		assert.Empty(t, cheap)

		all, err := svc.FindProducts(ctx, models.ProductFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Nil(t, all[0].Price)
	})

	t.Run("NeitherPriceNorValue", func(t *testing.T) {
		svc, coll := newCatalog(t)
		_, err := svc.AddProduct(ctx, models.Product{Name: "Nothing", Category: "X"})
		require.ErrorIs(t, err, docstore.ErrSchemaViolation)

		count, err := coll.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("IDSpaceExhausted", func(t *testing.T) {
		svc, _ := newCatalog(t, bson.M{"id": "99999", "name": "a", "category": "c", "price": 1.0})
		_, err := svc.AddProduct(ctx, models.Product{Name: "Lamp", Category: "Home", Price: ptr(10.0)})
		require.ErrorIs(t, err, docstore.ErrSchemaViolation)
	})
}

func TestNextProductID(t *testing.T) {
	tests := map[string]string{
		"0000":  "00001",
		"00001": "00002",
		"00042": "00043",
		"09999": "10000",
		"99999": "100000",
	}
	for highest, want := range tests {
		got, err := nextProductID(highest)
		require.NoError(t, err)
		assert.Equal(t, want, got, "after %s", highest)
	}

	_, err := nextProductID("abc")
	require.Error(t, err)
}

func TestAddProductConcurrentSameInstance(t *testing.T) {
	svc, coll := newCatalog(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.AddProduct(ctx, models.Product{Name: "Lamp", Category: "Home", Price: ptr(10.0)})
			if assert.NoError(t, err) {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

// rendezvousCollection holds every highest-id lookup until all expected
// writers have read, reproducing the interleaving of two service instances
// sharing one collection.
type rendezvousCollection struct {
	docstore.Collection
	read sync.WaitGroup
}

func (c *rendezvousCollection) Find(ctx context.Context, q *docstore.Query) ([]bson.Raw, error) {
	docs, err := c.Collection.Find(ctx, q)
	c.read.Done()
	c.read.Wait()
	return docs, err
}

func TestAddProductRaceAcrossInstances(t *testing.T) {
	ctx := context.Background()
	shared := &rendezvousCollection{Collection: docstore.NewMemoryCollection(database.ProductSchema)}
	shared.read.Add(2)

	a := NewProductService(shared)
	b := NewProductService(shared)

	type result struct {
		product models.Product
		err     error
	}
	results := make(chan result, 2)
	for _, svc := range []*ProductService{a, b} {
		go func() {
			p, err := svc.AddProduct(ctx, models.Product{Name: "Lamp", Category: "Home", Price: ptr(10.0)})
			results <- result{p, err}
		}()
	}

	var ok, dup int
	for i := 0; i < 2; i++ {
		r := <-results
		switch {
		case r.err == nil:
			ok++
			assert.Equal(t, "00001", r.product.ID)
		case errors.Is(r.err, docstore.ErrDuplicateKey):
			dup++
			assert.True(t, strings.Contains(r.err.Error(), `"00001"`))
		default:
			t.Fatalf("unexpected error: %v", r.err)
		}
	}

	// both instances computed the same id; only the primary key saved
	// the collection from holding it twice
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, dup)
}

type failingCollection struct {
	docstore.Collection
	err error
}

func (c failingCollection) Find(context.Context, *docstore.Query) ([]bson.Raw, error) {
	return nil, c.err
}

func (c failingCollection) FindOne(context.Context, string) (bson.Raw, error) {
	return nil, c.err
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	svc := NewProductService(failingCollection{err: boom})

	_, err := svc.FindProducts(ctx, models.ProductFilter{})
	require.ErrorIs(t, err, boom)

	_, err = svc.GetProductByID(ctx, "00001")
	require.ErrorIs(t, err, boom)

	_, err = svc.AddProduct(ctx, models.Product{Name: "Lamp", Category: "Home", Price: ptr(10.0)})
	require.ErrorIs(t, err, boom)
}
