package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"inventory/internal/models"
)

// parseProductFilter reads the listing predicates from the query string.
// Empty values are treated as absent.
func parseProductFilter(c *gin.Context) models.ProductFilter {
	return models.ProductFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		MinPrice: parsePriceParam(c.Query("minPrice")),
		MaxPrice: parsePriceParam(c.Query("maxPrice")),
	}
}

// parsePriceParam returns nil for an empty, malformed or NaN bound so the
// listing is not restricted by it.
func parsePriceParam(raw string) *float64 {
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}
