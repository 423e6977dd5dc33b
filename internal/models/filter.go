package models

// ProductFilter narrows a product listing. Empty strings and nil prices
// impose no constraint.
type ProductFilter struct {
	Name     string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
}

type SummaryField string

const (
	FieldID          SummaryField = "id"
	FieldName        SummaryField = "name"
	FieldCategory    SummaryField = "category"
	FieldBrand       SummaryField = "brand"
	FieldPrice       SummaryField = "price"
	FieldDescription SummaryField = "description"
)

// SummaryFields is the fixed field set returned by product listings.
var SummaryFields = []SummaryField{
	FieldID,
	FieldName,
	FieldCategory,
	FieldBrand,
	FieldPrice,
	FieldDescription,
}

func SummaryFieldNames() []string {
	names := make([]string, len(SummaryFields))
	for i, f := range SummaryFields {
		names[i] = string(f)
	}
	return names
}

// ProductSummary is a product reduced to SummaryFields. A field missing
// from the stored record stays nil and is omitted from JSON.
type ProductSummary struct {
	ID          *string  `bson:"id,omitempty" json:"id,omitempty"`
	Name        *string  `bson:"name,omitempty" json:"name,omitempty"`
	Category    *string  `bson:"category,omitempty" json:"category,omitempty"`
	Brand       *string  `bson:"brand,omitempty" json:"brand,omitempty"`
	Price       *float64 `bson:"price,omitempty" json:"price,omitempty"`
	Description *string  `bson:"description,omitempty" json:"description,omitempty"`
}
