package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chocobar-app/server/internal/models"
)

// CatalogReader resolves product identifiers against the live catalog.
// Any requested identifier absent from the result is invalid for ordering,
// whether it does not exist or is merely unavailable.
type CatalogReader interface {
	AvailableProducts(ids []uuid.UUID) ([]models.Product, error)
}

type gormCatalogReader struct {
	db *gorm.DB
}

// NewCatalogReader constructs the database-backed CatalogReader.
func NewCatalogReader(db *gorm.DB) CatalogReader {
	return &gormCatalogReader{db: db}
}

func (r *gormCatalogReader) AvailableProducts(ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("id IN ? AND is_available = ?", ids, true).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
