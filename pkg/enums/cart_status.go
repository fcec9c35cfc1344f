package enums

import "fmt"

// CartStatus tracks where a cart sits in the terminal's checkout lifecycle.
type CartStatus string

const (
	CartStatusActive          CartStatus = "active"
	CartStatusParked          CartStatus = "parked"
	CartStatusPendingCheckout CartStatus = "pending_checkout"
	// Processed and cancelled are terminal; the row is deleted in the same transaction.
	CartStatusProcessed CartStatus = "processed"
	CartStatusCancelled CartStatus = "cancelled"
)

var validCartStatuses = []CartStatus{
	CartStatusActive,
	CartStatusParked,
	CartStatusPendingCheckout,
	CartStatusProcessed,
	CartStatusCancelled,
}

// String implements fmt.Stringer.
func (c CartStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartStatus.
func (c CartStatus) IsValid() bool {
	for _, candidate := range validCartStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the cart's life.
func (c CartStatus) IsTerminal() bool {
	return c == CartStatusProcessed || c == CartStatusCancelled
}

// ParseCartStatus converts raw input into a CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	for _, candidate := range validCartStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart status %q", value)
}
