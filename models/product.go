package models

import (
	"strings"

	"github.com/pgvector/pgvector-go"
)

// CatalogProduct is one row of the externally owned product catalog.
// The application only ever reads this table; rows and the vector index
// are maintained by the catalog pipeline.
type CatalogProduct struct {
	ProductID       string          `gorm:"primaryKey;column:product_id" json:"product_id"`
	ProductName     string          `gorm:"column:product_name" json:"product_name"`
	BrandName       string          `gorm:"column:brand_name" json:"brand_name"`
	Category        string          `json:"category"`
	Subcategory     *string         `json:"subcategory"`
	BaseColor       string          `gorm:"column:base_color" json:"base_color"`
	SecondaryColor  *string         `gorm:"column:secondary_color" json:"secondary_color"`
	Pattern         *string         `json:"pattern"`
	Fabric          *string         `json:"fabric"`
	Fit             *string         `json:"fit"`
	SleeveLength    *string         `gorm:"column:sleeve_length" json:"sleeve_length"`
	NeckStyle       *string         `gorm:"column:neck_style" json:"neck_style"`
	Season          string          `json:"season"`
	Occasion        *string         `json:"occasion"`
	Style           *string         `json:"style"`
	PriceOriginal   float64         `gorm:"column:price_original" json:"price_original"`
	PriceDiscounted *float64        `gorm:"column:price_discounted" json:"price_discounted"`
	Description     string          `gorm:"type:text" json:"description"`
	Gender          string          `json:"gender"`
	GcsURI          string          `gorm:"column:gcs_uri" json:"gcs_uri"`
	Embedding       pgvector.Vector `gorm:"type:vector(1408)" json:"-"`
}

func (CatalogProduct) TableName() string {
	return "synthetic_products"
}

// Price returns the effective price, preferring the discounted one.
func (p *CatalogProduct) Price() float64 {
	if p.PriceDiscounted != nil && *p.PriceDiscounted > 0 {
		return *p.PriceDiscounted
	}
	return p.PriceOriginal
}

// Product is the catalog row shaped for API responses, with the
// similarity score attached by a ranking query.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	PriceOriginal   float64  `json:"price_original"`
	PriceDiscounted *float64 `json:"price_discounted"`
	ImageURL        string   `json:"image_url"`
	Color           string   `json:"color"`
	SecondaryColor  *string  `json:"secondary_color"`
	Category        string   `json:"category"`
	Subcategory     *string  `json:"subcategory"`
	Brand           string   `json:"brand"`
	Pattern         *string  `json:"pattern"`
	Fabric          *string  `json:"fabric"`
	Fit             *string  `json:"fit"`
	SleeveLength    *string  `json:"sleeve_length"`
	NeckStyle       *string  `json:"neck_style"`
	Season          string   `json:"season"`
	Occasion        *string  `json:"occasion"`
	Style           *string  `json:"style"`
	Gender          string   `json:"gender"`
	SimilarityScore float64  `json:"similarity_score"`
	MatchedCategory *string  `json:"matched_category,omitempty"`
}

// ToProduct attaches a similarity score and converts the stored object
// URI into a browser-reachable URL.
func (p *CatalogProduct) ToProduct(similarity float64) Product {
	return Product{
		ID:              p.ProductID,
		Name:            p.ProductName,
		Description:     p.Description,
		Price:           p.Price(),
		PriceOriginal:   p.PriceOriginal,
		PriceDiscounted: p.PriceDiscounted,
		ImageURL:        GcsURIToPublicURL(p.GcsURI),
		Color:           p.BaseColor,
		SecondaryColor:  p.SecondaryColor,
		Category:        p.Category,
		Subcategory:     p.Subcategory,
		Brand:           p.BrandName,
		Pattern:         p.Pattern,
		Fabric:          p.Fabric,
		Fit:             p.Fit,
		SleeveLength:    p.SleeveLength,
		NeckStyle:       p.NeckStyle,
		Season:          p.Season,
		Occasion:        p.Occasion,
		Style:           p.Style,
		Gender:          p.Gender,
		SimilarityScore: similarity,
	}
}

// GcsURIToPublicURL converts gs://bucket/path to the public HTTPS form.
// Anything that is not a gs:// URI passes through unchanged.
func GcsURIToPublicURL(uri string) string {
	if !strings.HasPrefix(uri, "gs://") {
		return uri
	}
	return "https://storage.googleapis.com/" + strings.TrimPrefix(uri, "gs://")
}
