package operators

import (
	"context"
	"time"

	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/anpos/pos-backend/pkg/types"
	"gorm.io/gorm"
)

// Repository persists terminal operators.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an operator repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUsername loads an operator by normalized username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Operator, error) {
	var op models.Operator
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

// Create inserts an operator.
func (r *Repository) Create(ctx context.Context, op *models.Operator) error {
	return r.db.WithContext(ctx).Create(op).Error
}

// Count returns the number of operators.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Operator{}).Count(&n).Error
	return n, err
}

// UpdateLastLogin stamps a successful login.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Operator{}).
		Where("operator_id = ?", id).
		Update("last_login_at", types.NewTimestamp(at)).Error
}

// UpdatePasswordHash replaces the stored hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Operator{}).
		Where("operator_id = ?", id).
		Update("password_hash", hash).Error
}
