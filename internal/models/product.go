package models

import (
	"time"
)

type Product struct {
	ID          string   `bson:"id" json:"id"`
	Name        string   `bson:"name" json:"name" binding:"required"`
	Category    string   `bson:"category" json:"category" binding:"required"`
	Price       *float64 `bson:"price,omitempty" json:"price,omitempty"`
	Value       *float64 `bson:"value,omitempty" json:"value,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`

	Brand string `bson:"brand,omitempty" json:"brand,omitempty"`
	Model string `bson:"model,omitempty" json:"model,omitempty"`

	Features       StringList        `bson:"features,omitempty" json:"features,omitempty"`
	Specifications map[string]string `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Weight         *float64          `bson:"weight,omitempty" json:"weight,omitempty"`
	Dimensions     *Dimensions       `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Colors         StringList        `bson:"colors,omitempty" json:"colors,omitempty"`
	Variants       []Variant         `bson:"variants,omitempty" json:"variants,omitempty"`
	Sizes          StringList        `bson:"sizes,omitempty" json:"sizes,omitempty"`

	ShippingClass     string `bson:"shippingClass,omitempty" json:"shippingClass,omitempty"`
	FreeShipping      *bool  `bson:"freeShipping,omitempty" json:"freeShipping,omitempty"`
	EstimatedDelivery string `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`

	SKU           string `bson:"sku,omitempty" json:"sku,omitempty"`
	StockQuantity *int   `bson:"stockQuantity,omitempty" json:"stockQuantity,omitempty"`
	IsAvailable   *bool  `bson:"isAvailable,omitempty" json:"isAvailable,omitempty"`

	RegularPrice *float64 `bson:"regularPrice,omitempty" json:"regularPrice,omitempty"`
	SalePrice    *float64 `bson:"salePrice,omitempty" json:"salePrice,omitempty"`
	Discount     *float64 `bson:"discount,omitempty" json:"discount,omitempty"`
	Currency     string   `bson:"currency,omitempty" json:"currency,omitempty"`

	Rating *Rating `bson:"rating,omitempty" json:"rating,omitempty"`

	Tags            StringList `bson:"tags,omitempty" json:"tags,omitempty"`
	MetaTitle       string     `bson:"metaTitle,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string     `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	MetaKeywords    StringList `bson:"metaKeywords,omitempty" json:"metaKeywords,omitempty"`

	Manufacturer    string     `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	CountryOfOrigin string     `bson:"countryOfOrigin,omitempty" json:"countryOfOrigin,omitempty"`
	WarrantyInfo    string     `bson:"warrantyInfo,omitempty" json:"warrantyInfo,omitempty"`
	CreatedAt       *time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	PublishedAt     *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`

	RelatedProductIDs StringList `bson:"relatedProductIds,omitempty" json:"relatedProductIds,omitempty"`

	MainImage string     `bson:"mainImage,omitempty" json:"mainImage,omitempty"`
	Images    StringList `bson:"images,omitempty" json:"images,omitempty"`
	Videos    StringList `bson:"videos,omitempty" json:"videos,omitempty"`
}

type Dimensions struct {
	Length float64 `bson:"length" json:"length"`
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
	Unit   string  `bson:"unit" json:"unit"`
}

// Variant is a purchasable option of a product, e.g. "Red - M".
type Variant struct {
	ID            string            `bson:"id" json:"id"`
	Name          string            `bson:"name" json:"name"`
	Attributes    map[string]string `bson:"attributes,omitempty" json:"attributes,omitempty"`
	Price         float64           `bson:"price" json:"price"`
	StockQuantity int               `bson:"stockQuantity" json:"stockQuantity"`
}

type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}
