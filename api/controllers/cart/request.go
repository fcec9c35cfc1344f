package cart

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anpos/pos-backend/api/validators"
	cartsvc "github.com/anpos/pos-backend/internal/cart"
	"github.com/anpos/pos-backend/pkg/enums"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
)

const (
	maxCartNameLen = 120
	maxBarcodeLen  = 64
)

type nameRequest struct {
	Name string `json:"name" validate:"max=120"`
}

type addItemRequest struct {
	ProductID      int64   `json:"product_id" validate:"required,gt=0"`
	ScannedBarcode *string `json:"scanned_barcode,omitempty" validate:"omitempty,max=64"`
	Quantity       int     `json:"quantity" validate:"gte=0"`
	Price          float64 `json:"price" validate:"gte=0"`
	PurchasingType string  `json:"purchasing_type" validate:"required,oneof=single bulk"`
	Discount       float64 `json:"discount" validate:"gte=0"`
}

func (r addItemRequest) toInput() cartsvc.AddItemInput {
	var barcode *string
	if r.ScannedBarcode != nil {
		if v := validators.SanitizeString(*r.ScannedBarcode, maxBarcodeLen); v != "" {
			barcode = &v
		}
	}
	return cartsvc.AddItemInput{
		ProductID:      r.ProductID,
		ScannedBarcode: barcode,
		Quantity:       r.Quantity,
		Price:          r.Price,
		PurchasingType: enums.PurchasingType(r.PurchasingType),
		Discount:       r.Discount,
	}
}

type setQuantityRequest struct {
	ProductID      int64  `json:"product_id" validate:"required,gt=0"`
	PurchasingType string `json:"purchasing_type" validate:"required,oneof=single bulk"`
	Quantity       int    `json:"quantity" validate:"gte=0"`
}

// decodeOptionalName accepts an empty body as an empty name.
func decodeOptionalName(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return "", nil
	}
	var payload nameRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return "", err
	}
	return validators.SanitizeString(payload.Name, maxCartNameLen), nil
}

// lineKeyFromQuery reads product_id and purchasing_type for line deletion.
func lineKeyFromQuery(r *http.Request) (int64, enums.PurchasingType, error) {
	q := r.URL.Query()
	productID, err := strconv.ParseInt(strings.TrimSpace(q.Get("product_id")), 10, 64)
	if err != nil || productID <= 0 {
		return 0, "", pkgerrors.New(pkgerrors.CodeValidation, "product_id must be a positive integer").
			WithDetails(map[string]any{"field": "product_id"})
	}
	purchasingType, err := enums.ParsePurchasingType(strings.TrimSpace(q.Get("purchasing_type")))
	if err != nil {
		return 0, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchasing_type").
			WithDetails(map[string]any{"field": "purchasing_type"})
	}
	return productID, purchasingType, nil
}
