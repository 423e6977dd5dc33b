package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"inventory/internal/metrics"
	"inventory/internal/models"
)

const requestTimeout = 5 * time.Second

// ProductService is the catalog behaviour the product routes depend on.
type ProductService interface {
	FindProducts(ctx context.Context, filter models.ProductFilter) ([]models.ProductSummary, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	AddProduct(ctx context.Context, product models.Product) (models.Product, error)
}

// RegisterProductRoutes mounts the catalog endpoints on r.
func RegisterProductRoutes(r gin.IRouter, svc ProductService) {
	r.GET("/products", GetProducts(svc))
	r.GET("/products/:id", GetProductByID(svc))
	r.POST("/products", AddProduct(svc))
}

// GetProducts lists products matching the optional name, category, brand,
// minPrice and maxPrice query parameters, cheapest first.
func GetProducts(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		filter := parseProductFilter(c)
		log.Printf(
			"[%s] hit name=%q category=%q brand=%q minPrice=%s maxPrice=%s",
			route,
			filter.Name,
			filter.Category,
			filter.Brand,
			c.Query("minPrice"),
			c.Query("maxPrice"),
		)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		products, err := svc.FindProducts(ctx, filter)
		if err != nil {
			log.Printf("[%s] find failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, gin.H{"error": "Failed to fetch products"})
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, products)
	}
}

func GetProductByID(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		id := c.Param("id")

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		product, err := svc.GetProductByID(ctx, id)
		if err != nil {
			log.Printf("[%s] lookup %q failed: %v", route, id, err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if product == nil {
			respondWithError(c, http.StatusNotFound, route, gin.H{
				"error":   "NotFound",
				"message": fmt.Sprintf("Product with ID '%s' not found", id),
			})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// AddProduct stores the request body as a new product. Any id in the body
// is replaced by the next sequential id.
func AddProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var product models.Product
		if err := c.ShouldBindJSON(&product); err != nil {
			respondWithError(c, http.StatusBadRequest, route, gin.H{
				"error":   "BadRequest",
				"message": bindErrorMessage(err),
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		created, err := svc.AddProduct(ctx, product)
		if err != nil {
			log.Printf("[%s] add failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, gin.H{
				"error":   "InternalServerError",
				"message": "An error occurred while adding the product",
			})
			return
		}

		metrics.RecordProductCreated()
		log.Printf("[%s] created product %s", route, created.ID)
		c.JSON(http.StatusCreated, created)
	}
}

func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid product payload"
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, jsonFieldName(fe.Field()))
	}
	return "missing required fields: " + strings.Join(missing, ", ")
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
