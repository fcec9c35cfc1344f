package enums

import "fmt"

// PurchasingType selects the retail or bulk price of a product line.
type PurchasingType string

const (
	PurchasingTypeSingle PurchasingType = "single"
	PurchasingTypeBulk   PurchasingType = "bulk"
)

var validPurchasingTypes = []PurchasingType{
	PurchasingTypeSingle,
	PurchasingTypeBulk,
}

// String implements fmt.Stringer.
func (p PurchasingType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PurchasingType.
func (p PurchasingType) IsValid() bool {
	for _, candidate := range validPurchasingTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePurchasingType converts raw input into a PurchasingType.
func ParsePurchasingType(value string) (PurchasingType, error) {
	for _, candidate := range validPurchasingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchasing type %q", value)
}
