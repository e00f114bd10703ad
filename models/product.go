package models

import "time"

// Translation holds the display strings for one locale. Attribute keys in
// AttributeKeys/AttributeValues are the base-locale keys; base decides which
// attributes exist.
type Translation struct {
	Name            string              `json:"name,omitempty" bson:"name,omitempty"`
	Description     string              `json:"description,omitempty" bson:"description,omitempty"`
	Category        string              `json:"category,omitempty" bson:"category,omitempty"`
	AttributeKeys   map[string]string   `json:"keys,omitempty" bson:"keys,omitempty"`
	AttributeValues map[string][]string `json:"values,omitempty" bson:"values,omitempty"`
}

type Product struct {
	ProductID     string                 `json:"productId" bson:"productId"`
	ProductNumber string                 `json:"productNumber" bson:"productNumber"`
	Name          string                 `json:"name" bson:"name"`
	Description   string                 `json:"description,omitempty" bson:"description,omitempty"`
	Category      string                 `json:"category,omitempty" bson:"category,omitempty"`
	Price         float64                `json:"price" bson:"price"`
	Enabled       bool                   `json:"enabled" bson:"enabled"`
	Images        []string               `json:"images" bson:"images"`
	Slug          string                 `json:"slug,omitempty" bson:"slug,omitempty"`
	Attributes    map[string][]string    `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Translations  map[string]Translation `json:"translations,omitempty" bson:"translations,omitempty"`

	AverageRating      float64        `json:"averageRating" bson:"averageRating"`
	ReviewCount        int            `json:"reviewCount" bson:"reviewCount"`
	RatingDistribution map[string]int `json:"ratingDistribution" bson:"ratingDistribution"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductView is the locale-projected shape handed to clients. Attributes
// carry translated keys/values; BaseAttributes always carries the original
// ones so filtering can still run against base keys.
type ProductView struct {
	ProductID      string              `json:"productId"`
	ProductNumber  string              `json:"productNumber"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	Category       string              `json:"category,omitempty"`
	Price          float64             `json:"price"`
	Enabled        bool                `json:"enabled"`
	Images         []string            `json:"images"`
	Image          string              `json:"image"`
	Slug           string              `json:"slug,omitempty"`
	Attributes     map[string][]string `json:"attributes"`
	BaseAttributes map[string][]string `json:"baseAttributes"`

	AverageRating      float64        `json:"averageRating"`
	ReviewCount        int            `json:"reviewCount"`
	RatingDistribution map[string]int `json:"ratingDistribution"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
