package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups menu products. It cannot be deleted while it still owns
// products.
type Category struct {
	BaseModel
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
}

// Product is a single menu entry. Price is stored as a fixed-point decimal;
// unavailable products cannot be added to new orders.
type Product struct {
	BaseModel
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
	ImageURL    string          `json:"image_url"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category       `json:"category,omitempty"`
}
