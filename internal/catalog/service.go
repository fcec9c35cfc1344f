package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anpos/pos-backend/pkg/db"
	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/anpos/pos-backend/pkg/enums"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var errStopScan = errors.New("catalog scan stopped")

type productStore interface {
	List(ctx context.Context, limit int) ([]models.Product, error)
	Scan(ctx context.Context, fn func(batch []models.Product) bool) error
	FindByCode(ctx context.Context, code string) (*models.Product, error)
}

// Match is a product resolved from a scanned code, with the purchasing type
// that code denotes and the unit price for it.
type Match struct {
	Product        models.Product       `json:"product"`
	PurchasingType enums.PurchasingType `json:"purchasing_type"`
	UnitPrice      float64              `json:"unit_price"`
}

// Service resolves free text and barcodes to catalog records.
type Service interface {
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	FindByBarcode(ctx context.Context, code string) (*Match, error)
}

type service struct {
	repo productStore
}

// NewService builds the catalog service.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// Search matches query against barcode and item name ignoring case and accents.
// An empty query lists the first limit products.
func (s *service) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	needle := Fold(query)
	if needle == "" {
		rows, err := s.repo.List(ctx, limit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list products")
		}
		return rows, nil
	}

	matches := make([]models.Product, 0, limit)
	err := s.repo.Scan(ctx, func(batch []models.Product) bool {
		for _, p := range batch {
			if strings.Contains(Fold(p.Barcode), needle) || strings.Contains(Fold(p.ItemName), needle) {
				matches = append(matches, p)
				if len(matches) == limit {
					return false
				}
			}
		}
		return true
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "search products")
	}
	return matches, nil
}

// FindByBarcode resolves a scanned code. A bulk code selects bulk pricing.
func (s *service) FindByBarcode(ctx context.Context, code string) (*Match, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}

	product, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "find product by barcode")
	}

	match := &Match{
		Product:        *product,
		PurchasingType: enums.PurchasingTypeSingle,
		UnitPrice:      product.RetailPrice,
	}
	if product.Barcode != code && product.BulkCode != nil && *product.BulkCode == code {
		match.PurchasingType = enums.PurchasingTypeBulk
		if product.BulkPrice != nil {
			match.UnitPrice = *product.BulkPrice
		}
	}
	return match, nil
}
