package cart

import (
	"context"
	"time"

	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/anpos/pos-backend/pkg/enums"
	"gorm.io/gorm"
)

// CartRepository defines the persistence surface required by the cart service.
// Mutators report affected row counts so the service can tell "absent" from
// "wrong status" without a second round trip.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository

	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindByID(ctx context.Context, id int64) (*models.Cart, error)
	FindActive(ctx context.Context) (*models.Cart, error)
	ListByStatus(ctx context.Context, status enums.CartStatus) ([]models.Cart, error)
	UpdateName(ctx context.Context, id int64, name string) (int64, error)
	TransitionStatus(ctx context.Context, id int64, from []enums.CartStatus, to enums.CartStatus) (int64, error)
	Park(ctx context.Context, id int64, name string) (int64, error)
	DemoteActive(ctx context.Context) (int64, error)
	DeleteCart(ctx context.Context, id int64) (int64, error)

	InsertItem(ctx context.Context, item *models.CartItem) error
	ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID int64, purchasingType enums.PurchasingType, quantity int) (int64, error)
	DeleteItems(ctx context.Context, cartID, productID int64, purchasingType enums.PurchasingType) (int64, error)
	DeleteCartItems(ctx context.Context, cartID int64) (int64, error)

	DeleteExpiredItems(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteExpiredCarts(ctx context.Context, cutoff time.Time) (int64, error)

	NextInvoiceSequence(ctx context.Context, businessDate string) (int, error)
}
