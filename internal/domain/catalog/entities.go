package catalog

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

// ProductType buckets a product into its place in a routine.
type ProductType string

const (
	ProductTypeCleanser    ProductType = "cleanser"
	ProductTypeToner       ProductType = "toner"
	ProductTypeSerum       ProductType = "serum"
	ProductTypeMoisturizer ProductType = "moisturizer"
	ProductTypeSunscreen   ProductType = "sunscreen"
	ProductTypeOther       ProductType = "other"
)

// ParseProductType validates a free-form type string.
func ParseProductType(raw string) (ProductType, error) {
	switch ProductType(raw) {
	case ProductTypeCleanser, ProductTypeToner, ProductTypeSerum,
		ProductTypeMoisturizer, ProductTypeSunscreen, ProductTypeOther:
		return ProductType(raw), nil
	}
	return "", apperrors.Wrap(apperrors.CodeInvalidInput, "unknown product type: "+raw, nil)
}

// Ingredient names a key ingredient, ordered as the user entered them.
type Ingredient struct {
	Name string `json:"name"`
}

// Product is a user owned catalog entry.
type Product struct {
	ID             uuid.UUID    `json:"id"`
	UserID         int64        `json:"userId"`
	Name           string       `json:"name"`
	Brand          string       `json:"brand"`
	Type           ProductType  `json:"type"`
	KeyIngredients []Ingredient `json:"keyIngredients"`
	Usage          string       `json:"usage"`
	IsActive       bool         `json:"isActive"`
	ImageKey       *string      `json:"imageKey,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}
