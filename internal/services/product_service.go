package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"inventory/internal/docstore"
	"inventory/internal/models"
)

const (
	idField = "id"
	idWidth = 5
	// emptyCatalogID stands in for the highest id of an empty collection.
	emptyCatalogID = "0000"
)

type ProductService struct {
	products docstore.Collection

	// idMu serializes id assignment and insert within this process. Other
	// processes writing to the same collection are not covered; the
	// collection's primary key rejects their duplicates.
	idMu sync.Mutex
}

func NewProductService(products docstore.Collection) *ProductService {
	return &ProductService{products: products}
}

// FindProducts returns the products matching every predicate of filter,
// ordered by ascending price and reduced to models.SummaryFields.
func (s *ProductService) FindProducts(ctx context.Context, filter models.ProductFilter) ([]models.ProductSummary, error) {
	const op = "ProductService.FindProducts"

	docs, err := s.products.Find(ctx, findQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := make([]models.ProductSummary, 0, len(docs))
	for _, doc := range docs {
		summary, err := summarize(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, summary)
	}

	return products, nil
}

func findQuery(filter models.ProductFilter) *docstore.Query {
	q := docstore.NewQuery()

	if filter.Name != "" {
		q.Where("name").Regex(regexp.QuoteMeta(filter.Name))
	}
	if filter.Brand != "" {
		q.Where("brand").Eq(filter.Brand)
	}
	if filter.Category != "" {
		q.Where("category").Eq(filter.Category)
	}
	if filter.MinPrice != nil {
		q.Where("price").Gte(*filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q.Where("price").Lte(*filter.MaxPrice)
	}

	return q.Sort("price", docstore.Asc).Select(models.SummaryFieldNames()...)
}

func summarize(doc bson.Raw) (models.ProductSummary, error) {
	projected, err := docstore.Project(doc, models.SummaryFieldNames())
	if err != nil {
		return models.ProductSummary{}, err
	}

	var summary models.ProductSummary
	if err := bson.Unmarshal(projected, &summary); err != nil {
		return models.ProductSummary{}, err
	}
	return summary, nil
}

// GetProductByID returns nil and no error when no product has the id.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	const op = "ProductService.GetProductByID"

	doc, err := s.products.FindOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if doc == nil {
		return nil, nil
	}

	var product models.Product
	if err := bson.Unmarshal(doc, &product); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &product, nil
}

// AddProduct assigns the next sequential id, replacing any id the caller
// set, and inserts the product.
func (s *ProductService) AddProduct(ctx context.Context, product models.Product) (models.Product, error) {
	const op = "ProductService.AddProduct"

	s.idMu.Lock()
	defer s.idMu.Unlock()

	highest, err := s.highestID(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: highest id: %w", op, err)
	}

	id, err := nextProductID(highest)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	product.ID = id

	if err := s.products.Insert(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}

func (s *ProductService) highestID(ctx context.Context) (string, error) {
	q := docstore.NewQuery().Sort(idField, docstore.Desc).Limit(1).Select(idField)

	docs, err := s.products.Find(ctx, q)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return emptyCatalogID, nil
	}

	v, err := docs[0].LookupErr(idField)
	if err != nil || v.Type != bsontype.String {
		return "", fmt.Errorf("record without a string %q", idField)
	}
	return v.StringValue(), nil
}

// nextProductID increments a decimal id and zero-pads it to idWidth.
// Wider values are not truncated: "99999" becomes "100000".
func nextProductID(highest string) (string, error) {
	n, err := strconv.ParseInt(highest, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse product id %q: %w", highest, err)
	}
	return fmt.Sprintf("%0*d", idWidth, n+1), nil
}
