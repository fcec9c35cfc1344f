package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anpos/pos-backend/pkg/db"
	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/anpos/pos-backend/pkg/enums"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/anpos/pos-backend/pkg/logger"
	"github.com/anpos/pos-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OperationObserver receives the outcome of every cart operation.
type OperationObserver interface {
	ObserveCartOperation(op string, err error)
	AddExpiredCarts(n int64)
}

// Service exposes the cart lifecycle of the terminal.
type Service interface {
	Create(ctx context.Context, name string) (*models.Cart, error)
	Rename(ctx context.Context, cartID int64, name string) error
	AddItem(ctx context.Context, cartID int64, input AddItemInput) (*models.CartItem, error)
	RemoveItem(ctx context.Context, cartID, productID int64, purchasingType enums.PurchasingType) error
	SetItemQuantity(ctx context.Context, cartID, productID int64, purchasingType enums.PurchasingType, quantity int) error
	Park(ctx context.Context, cartID int64, name string) error
	Activate(ctx context.Context, cartID int64) error
	Checkout(ctx context.Context, cartID int64, storeID, storemanID string) (string, error)
	ConfirmPayment(ctx context.Context, cartID int64) error
	Cancel(ctx context.Context, cartID int64) error
	ListActive(ctx context.Context) (*models.Cart, error)
	ListParked(ctx context.Context) ([]models.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error)
	Totals(ctx context.Context, cartID int64) (*Totals, error)
	CleanupExpired(ctx context.Context, ttlMinutes int) (int64, error)
}

// ServiceParams wires the cart service.
type ServiceParams struct {
	Repo     CartRepository
	Tx       txRunner
	Logger   *logger.Logger
	Observer OperationObserver
	Now      func() time.Time
	// VATRate is the fraction charged on the discounted total; zero means exempt.
	VATRate float64
}

type service struct {
	repo     CartRepository
	tx       txRunner
	logg     *logger.Logger
	observer OperationObserver
	now      func() time.Time
	vatRate  float64
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.VATRate < 0 || params.VATRate > 1 {
		return nil, fmt.Errorf("vat rate %v outside [0, 1]", params.VATRate)
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		logg:     params.Logger,
		observer: params.Observer,
		now:      now,
		vatRate:  params.VATRate,
	}, nil
}

// AddItemInput carries an already-resolved product line.
type AddItemInput struct {
	ProductID      int64
	ScannedBarcode *string
	Quantity       int
	Price          float64
	PurchasingType enums.PurchasingType
	Discount       float64
}

func (in AddItemInput) validate() error {
	if in.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if in.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if in.Discount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be non-negative")
	}
	if !in.PurchasingType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid purchasing type %q", in.PurchasingType))
	}
	return nil
}

// Create opens a new active cart, parking whichever cart was active before.
func (s *service) Create(ctx context.Context, name string) (created *models.Cart, err error) {
	defer s.observe("create", &err)

	cart := &models.Cart{
		Name:      name,
		Status:    enums.CartStatusActive,
		CreatedAt: types.NewTimestamp(s.now()),
	}

	var demoted int64
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		n, err := txRepo.DemoteActive(ctx)
		if err != nil {
			return err
		}
		demoted = n
		created, err = txRepo.Create(ctx, cart)
		return err
	}); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "another cart became active concurrently")
		}
		return nil, persistenceError(err, "create cart")
	}

	ctx = s.logg.WithCartID(ctx, created.ID)
	ctx = s.logg.WithField(ctx, "demoted", demoted)
	s.logg.Info(ctx, "cart.created")
	return created, nil
}

// Rename updates the cart name in any status.
func (s *service) Rename(ctx context.Context, cartID int64, name string) (err error) {
	defer s.observe("rename", &err)

	n, err := s.repo.UpdateName(ctx, cartID, name)
	if err != nil {
		return persistenceError(err, "rename cart")
	}
	if n == 0 {
		return notFound()
	}
	s.logg.Info(s.logg.WithCartID(ctx, cartID), "cart.renamed")
	return nil
}

// AddItem appends a line to an active cart. Re-adding an existing
// (product, purchasing type) pair stores a second line.
func (s *service) AddItem(ctx context.Context, cartID int64, input AddItemInput) (line *models.CartItem, err error) {
	defer s.observe("add_item", &err)

	if err := input.validate(); err != nil {
		return nil, err
	}

	item := &models.CartItem{
		CartID:         cartID,
		ProductID:      input.ProductID,
		ScannedBarcode: input.ScannedBarcode,
		Quantity:       input.Quantity,
		Price:          input.Price,
		PurchasingType: input.PurchasingType,
		Discount:       input.Discount,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := txRepo.FindByID(ctx, cartID)
		if err != nil {
			if db.IsNotFound(err) {
				return notFound()
			}
			return err
		}
		if cart.Status != enums.CartStatusActive {
			return precondition("add item", ErrCartNotActive)
		}
		return txRepo.InsertItem(ctx, item)
	}); err != nil {
		return nil, persistenceError(err, "add cart item")
	}

	ctx = s.logg.WithCartID(ctx, cartID)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"product_id":      item.ProductID,
		"purchasing_type": item.PurchasingType,
		"quantity":        item.Quantity,
	})
	s.logg.Info(ctx, "cart.item_added")
	return item, nil
}

// RemoveItem deletes every matching line. Nothing to delete is not an error.
func (s *service) RemoveItem(ctx context.Context, cartID, productID int64, purchasingType enums.PurchasingType) (err error) {
	defer s.observe("remove_item", &err)

	if !purchasingType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid purchasing type %q", purchasingType))
	}
	n, err := s.repo.DeleteItems(ctx, cartID, productID, purchasingType)
	if err != nil {
		return persistenceError(err, "remove cart item")
	}

	ctx = s.logg.WithCartID(ctx, cartID)
	ctx = s.logg.WithFields(ctx, map[string]any{"product_id": productID, "removed": n})
	s.logg.Info(ctx, "cart.item_removed")
	return nil
}

// SetItemQuantity overwrites the quantity of matching lines; zero removes them.
func (s *service) SetItemQuantity(ctx context.Context, cartID, productID int64, purchasingType enums.PurchasingType, quantity int) (err error) {
	defer s.observe("set_item_quantity", &err)

	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if !purchasingType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid purchasing type %q", purchasingType))
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.UpdateItemQuantity(ctx, cartID, productID, purchasingType, quantity); err != nil {
			return err
		}
		if quantity == 0 {
			_, err := txRepo.DeleteItems(ctx, cartID, productID, purchasingType)
			return err
		}
		return nil
	}); err != nil {
		return persistenceError(err, "set item quantity")
	}

	ctx = s.logg.WithCartID(ctx, cartID)
	ctx = s.logg.WithFields(ctx, map[string]any{"product_id": productID, "quantity": quantity})
	s.logg.Info(ctx, "cart.item_quantity_set")
	return nil
}

// Park suspends the active cart under a name.
func (s *service) Park(ctx context.Context, cartID int64, name string) (err error) {
	defer s.observe("park", &err)

	n, err := s.repo.Park(ctx, cartID, name)
	if err != nil {
		return persistenceError(err, "park cart")
	}
	if n == 0 {
		return s.missingOr(ctx, cartID, precondition("park", ErrNotActive))
	}
	s.logg.Info(s.logg.WithCartID(ctx, cartID), "cart.parked")
	return nil
}

// Activate parks whichever cart is active and resumes the target. The whole
// swap rolls back when the target is not parked.
func (s *service) Activate(ctx context.Context, cartID int64) (err error) {
	defer s.observe("activate", &err)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.DemoteActive(ctx); err != nil {
			return err
		}
		n, err := txRepo.TransitionStatus(ctx, cartID, []enums.CartStatus{enums.CartStatusParked}, enums.CartStatusActive)
		if err != nil {
			return err
		}
		if n == 0 {
			return missingOrWith(ctx, txRepo, cartID, precondition("activate", ErrNotParked))
		}
		return nil
	}); err != nil {
		return persistenceError(err, "activate cart")
	}

	s.logg.Info(s.logg.WithCartID(ctx, cartID), "cart.activated")
	return nil
}

// Checkout moves the cart to pending_checkout and issues the next invoice id
// of the day in the same transaction. The id is returned, not stored.
func (s *service) Checkout(ctx context.Context, cartID int64, storeID, storemanID string) (invoiceID string, err error) {
	defer s.observe("checkout", &err)

	storeID = strings.TrimSpace(storeID)
	storemanID = strings.TrimSpace(storemanID)
	if storeID == "" || storemanID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "store id and storeman id are required")
	}

	now := s.now().UTC()
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := txRepo.FindByID(ctx, cartID)
		if err != nil {
			if db.IsNotFound(err) {
				return notFound()
			}
			return err
		}
		if cart.Status == enums.CartStatusPendingCheckout {
			return precondition("checkout", ErrAlreadyPendingCheckout)
		}

		from := []enums.CartStatus{enums.CartStatusActive, enums.CartStatusParked}
		n, err := txRepo.TransitionStatus(ctx, cartID, from, enums.CartStatusPendingCheckout)
		if err != nil {
			return err
		}
		if n == 0 {
			return precondition("checkout", ErrAlreadyPendingCheckout)
		}

		seq, err := txRepo.NextInvoiceSequence(ctx, BusinessDate(now))
		if err != nil {
			return err
		}
		invoiceID, err = FormatInvoiceID(storeID, storemanID, now, seq)
		return err
	}); err != nil {
		return "", persistenceError(err, "checkout cart")
	}

	ctx = s.logg.WithCartID(ctx, cartID)
	ctx = s.logg.WithField(ctx, "invoice_id", invoiceID)
	s.logg.Info(ctx, "cart.checked_out")
	return invoiceID, nil
}

// ConfirmPayment settles a pending cart and deletes it with its lines.
func (s *service) ConfirmPayment(ctx context.Context, cartID int64) (err error) {
	defer s.observe("confirm_payment", &err)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		n, err := txRepo.TransitionStatus(ctx, cartID, []enums.CartStatus{enums.CartStatusPendingCheckout}, enums.CartStatusProcessed)
		if err != nil {
			return err
		}
		if n == 0 {
			return missingOrWith(ctx, txRepo, cartID, precondition("confirm payment", ErrNotPendingCheckout))
		}
		return deleteCartTree(ctx, txRepo, cartID)
	}); err != nil {
		return persistenceError(err, "confirm payment")
	}

	s.logg.Info(s.logg.WithCartID(ctx, cartID), "cart.processed")
	return nil
}

// Cancel deletes a cart and its lines whatever its status.
func (s *service) Cancel(ctx context.Context, cartID int64) (err error) {
	defer s.observe("cancel", &err)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return deleteCartTree(ctx, s.repo.WithTx(tx), cartID)
	}); err != nil {
		return persistenceError(err, "cancel cart")
	}

	s.logg.Info(s.logg.WithCartID(ctx, cartID), "cart.cancelled")
	return nil
}

// ListActive returns the active cart, or nil when there is none.
func (s *service) ListActive(ctx context.Context) (*models.Cart, error) {
	cart, err := s.repo.FindActive(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, persistenceError(err, "load active cart")
	}
	return cart, nil
}

// ListParked returns parked carts oldest first.
func (s *service) ListParked(ctx context.Context) ([]models.Cart, error) {
	carts, err := s.repo.ListByStatus(ctx, enums.CartStatusParked)
	if err != nil {
		return nil, persistenceError(err, "list parked carts")
	}
	return carts, nil
}

// ListItems returns the lines of a cart. An unknown cart has no lines.
func (s *service) ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	items, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, persistenceError(err, "list cart items")
	}
	return items, nil
}

// Totals sums the cart's lines and charges the configured VAT on the net total.
func (s *service) Totals(ctx context.Context, cartID int64) (*Totals, error) {
	if _, err := s.repo.FindByID(ctx, cartID); err != nil {
		if db.IsNotFound(err) {
			return nil, notFound()
		}
		return nil, persistenceError(err, "load cart")
	}
	items, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, persistenceError(err, "list cart items")
	}
	totals := ComputeTotals(cartID, items, s.vatRate)
	return &totals, nil
}

// CleanupExpired deletes active carts older than ttlMinutes together with their
// lines and reports how many carts went. Parked and pending carts are kept.
func (s *service) CleanupExpired(ctx context.Context, ttlMinutes int) (deleted int64, err error) {
	defer s.observe("cleanup_expired", &err)

	if ttlMinutes < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ttl minutes must be non-negative")
	}

	cutoff := s.now().UTC().Add(-time.Duration(ttlMinutes) * time.Minute)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.DeleteExpiredItems(ctx, cutoff); err != nil {
			return err
		}
		n, err := txRepo.DeleteExpiredCarts(ctx, cutoff)
		deleted = n
		return err
	}); err != nil {
		return 0, persistenceError(err, "cleanup expired carts")
	}

	if s.observer != nil {
		s.observer.AddExpiredCarts(deleted)
	}
	if deleted > 0 {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"deleted": deleted,
			"cutoff":  types.FormatTimestamp(cutoff),
		})
		s.logg.Info(ctx, "cart.expired_cleanup")
	}
	return deleted, nil
}

func deleteCartTree(ctx context.Context, repo CartRepository, cartID int64) error {
	if _, err := repo.DeleteCartItems(ctx, cartID); err != nil {
		return err
	}
	n, err := repo.DeleteCart(ctx, cartID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound()
	}
	return nil
}

func (s *service) missingOr(ctx context.Context, cartID int64, fallback error) error {
	return missingOrWith(ctx, s.repo, cartID, fallback)
}

// missingOrWith resolves a zero-row conditional update into NotFound when the
// cart is absent, fallback otherwise.
func missingOrWith(ctx context.Context, repo CartRepository, cartID int64, fallback error) error {
	if _, err := repo.FindByID(ctx, cartID); err != nil {
		if db.IsNotFound(err) {
			return notFound()
		}
		return persistenceError(err, "load cart")
	}
	return fallback
}

func (s *service) observe(op string, errp *error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveCartOperation(op, *errp)
}

func notFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
}

func precondition(op string, cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodePrecondition, cause, op+" rejected")
}

func persistenceError(err error, op string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, op)
}
