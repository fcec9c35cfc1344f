package cart

import (
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
)

// BusinessDateLayout keys the per-day invoice counter.
const BusinessDateLayout = "20060102"

// BusinessDate returns the YYYYMMDD key for t in UTC.
func BusinessDate(t time.Time) string {
	return t.UTC().Format(BusinessDateLayout)
}

// FormatInvoiceID renders {store}_{storeman}_{YYYYMMDD}_{seq:03d}. Sequences
// wider than three digits print as-is.
func FormatInvoiceID(storeID, storemanID string, date time.Time, seq int) (string, error) {
	storeID = strings.TrimSpace(storeID)
	storemanID = strings.TrimSpace(storemanID)
	if storeID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if storemanID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "storeman id is required")
	}
	if seq < 1 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invoice sequence must be positive")
	}
	return fmt.Sprintf("%s_%s_%s_%03d", storeID, storemanID, BusinessDate(date), seq), nil
}
