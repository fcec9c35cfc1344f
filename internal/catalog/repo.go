package catalog

import (
	"context"
	"errors"

	"github.com/anpos/pos-backend/pkg/db/models"
	"gorm.io/gorm"
)

const scanBatchSize = 500

// Repository reads the product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the first limit products by id.
func (r *Repository) List(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Order("product_id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Scan walks the catalog in id order, batch by batch, until fn returns false.
func (r *Repository) Scan(ctx context.Context, fn func(batch []models.Product) bool) error {
	var rows []models.Product
	res := r.db.WithContext(ctx).
		FindInBatches(&rows, scanBatchSize, func(tx *gorm.DB, _ int) error {
			if !fn(rows) {
				return errStopScan
			}
			return nil
		})
	if res.Error != nil && !errors.Is(res.Error, errStopScan) {
		return res.Error
	}
	return nil
}

// FindByCode loads the product whose barcode or bulk code equals code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("barcode = ? OR bulk_code = ?", code, code).
		Order("product_id ASC").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a product. Used by seeding tools and tests.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}
