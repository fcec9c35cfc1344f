package cart

import (
	"net/http"

	"github.com/anpos/pos-backend/api/middleware"
	"github.com/anpos/pos-backend/api/responses"
	"github.com/anpos/pos-backend/api/validators"
	cartsvc "github.com/anpos/pos-backend/internal/cart"
	"github.com/anpos/pos-backend/pkg/config"
	"github.com/anpos/pos-backend/pkg/enums"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/anpos/pos-backend/pkg/logger"
)

const (
	cartIDParam   = "cartId"
	maxTTLMinutes = 60 * 24 * 365
)

// CartCreate opens a new active cart; the previous active cart is parked.
func CartCreate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		name, err := decodeOptionalName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(created))
	}
}

// CartActive returns the active cart, or null data when there is none.
func CartActive(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		active, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(active))
	}
}

// CartParked lists suspended carts, oldest first.
func CartParked(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		carts, err := svc.ListParked(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartList(carts))
	}
}

// CartRename changes the cart label in any status.
func CartRename(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		var payload nameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Rename(r.Context(), cartID, validators.SanitizeString(payload.Name, maxCartNameLen)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CartPark suspends the active cart under an optional name.
func CartPark(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		name, err := decodeOptionalName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Park(r.Context(), cartID, name); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CartActivate resumes a parked cart.
func CartActivate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Activate(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CartCheckout moves the cart to pending checkout and issues its invoice id.
// The authenticated operator is the storeman.
func CartCheckout(svc cartsvc.Service, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		storeman := middleware.UsernameFromContext(r.Context())
		if storeman == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator context missing"))
			return
		}
		invoiceID, err := svc.Checkout(r.Context(), cartID, cartCfg.StoreID, storeman)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutResponse{CartID: cartID, InvoiceID: invoiceID})
	}
}

// CartConfirmPayment settles a pending cart and removes it.
func CartConfirmPayment(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		if err := svc.ConfirmPayment(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CartCancel discards a cart and its lines in any status.
func CartCancel(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Cancel(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CartItems lists the lines of a cart.
func CartItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		items, err := svc.ListItems(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartItemList(items))
	}
}

// CartAddItem appends a resolved product line to the active cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.AddItem(r.Context(), cartID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartItemResponse(*item))
	}
}

// CartSetItemQuantity overwrites a line quantity; zero removes the line.
func CartSetItemQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		err := svc.SetItemQuantity(r.Context(), cartID, payload.ProductID, enums.PurchasingType(payload.PurchasingType), payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CartRemoveItem deletes the lines matching product_id and purchasing_type.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		productID, purchasingType, err := lineKeyFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveItem(r.Context(), cartID, productID, purchasingType); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CartTotals returns the cart's subtotal, discount and total.
func CartTotals(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		cartID, ok := cartIDFromPath(w, r, logg)
		if !ok {
			return
		}
		totals, err := svc.Totals(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTotalsResponse(totals))
	}
}

// CartCleanup sweeps expired active carts. ttl_minutes defaults to the
// configured cart TTL.
func CartCleanup(svc cartsvc.Service, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		ttl, err := validators.ParseQueryInt(r, "ttl_minutes", cartCfg.TTLMinutes, 0, maxTTLMinutes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deleted, err := svc.CleanupExpired(r.Context(), ttl)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cleanupResponse{TTLMinutes: ttl, Deleted: deleted})
	}
}

func serviceReady(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) bool {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return false
	}
	return true
}

func cartIDFromPath(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (int64, bool) {
	cartID, err := validators.ParsePathID(r, cartIDParam)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return 0, false
	}
	return cartID, true
}
