package cart

import (
	"context"
	"time"

	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/anpos/pos-backend/pkg/enums"
	"github.com/anpos/pos-backend/pkg/types"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for carts and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new cart.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.Status == "" {
		cart.Status = enums.CartStatusActive
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// FindByID loads a cart by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("cart_id = ?", id).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindActive loads the active cart.
func (r *Repository) FindActive(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.CartStatusActive).
		Order("cart_id DESC").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListByStatus returns carts in the given status, oldest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.CartStatus) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Order("cart_id ASC").
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

// UpdateName renames a cart regardless of status.
func (r *Repository) UpdateName(ctx context.Context, id int64, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("cart_id = ?", id).
		Update("cart_name", name)
	return res.RowsAffected, res.Error
}

// TransitionStatus moves a cart to `to` only when it currently sits in one of `from`.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from []enums.CartStatus, to enums.CartStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("cart_id = ? AND status IN ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// Park names and parks a cart in a single conditional update.
func (r *Repository) Park(ctx context.Context, id int64, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("cart_id = ? AND status = ?", id, enums.CartStatusActive).
		Updates(map[string]any{
			"status":    enums.CartStatusParked,
			"cart_name": name,
		})
	return res.RowsAffected, res.Error
}

// DemoteActive parks every active cart.
func (r *Repository) DemoteActive(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("status = ?", enums.CartStatusActive).
		Update("status", enums.CartStatusParked)
	return res.RowsAffected, res.Error
}

// DeleteCart removes the cart row.
func (r *Repository) DeleteCart(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ?", id).
		Delete(&models.Cart{})
	return res.RowsAffected, res.Error
}

// InsertItem appends a line.
func (r *Repository) InsertItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListItems returns the lines of a cart in insertion order.
func (r *Repository) ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	var rows []models.CartItem
	q := r.db.WithContext(ctx).Where("cart_id = ?", cartID)
	if r.db.Dialector != nil && r.db.Dialector.Name() == "sqlite" {
		// lines have no key; rowid preserves scan order
		q = q.Order("rowid ASC")
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateItemQuantity overwrites the quantity of every matching line.
func (r *Repository) UpdateItemQuantity(ctx context.Context, cartID, productID int64, purchasingType enums.PurchasingType, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ? AND purchasing_type = ?", cartID, productID, purchasingType).
		Update("quantity", quantity)
	return res.RowsAffected, res.Error
}

// DeleteItems removes every matching line.
func (r *Repository) DeleteItems(ctx context.Context, cartID, productID int64, purchasingType enums.PurchasingType) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND purchasing_type = ?", cartID, productID, purchasingType).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteCartItems removes all lines of a cart.
func (r *Repository) DeleteCartItems(ctx context.Context, cartID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteExpiredItems removes the lines of active carts created before cutoff.
func (r *Repository) DeleteExpiredItems(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM cart_items WHERE cart_id IN (SELECT cart_id FROM carts WHERE status = ? AND created_at < ?)`,
		enums.CartStatusActive, types.FormatTimestamp(cutoff),
	)
	return res.RowsAffected, res.Error
}

// DeleteExpiredCarts removes active carts created before cutoff.
func (r *Repository) DeleteExpiredCarts(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.CartStatusActive, types.FormatTimestamp(cutoff)).
		Delete(&models.Cart{})
	return res.RowsAffected, res.Error
}

// NextInvoiceSequence increments and returns the counter for businessDate.
func (r *Repository) NextInvoiceSequence(ctx context.Context, businessDate string) (int, error) {
	conn := r.db.WithContext(ctx)
	err := conn.Exec(
		`INSERT INTO invoice_sequences (business_date, last_seq) VALUES (?, 1)
		 ON CONFLICT (business_date) DO UPDATE SET last_seq = invoice_sequences.last_seq + 1`,
		businessDate,
	).Error
	if err != nil {
		return 0, err
	}

	var seq int
	if err := conn.Raw(`SELECT last_seq FROM invoice_sequences WHERE business_date = ?`, businessDate).Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}
