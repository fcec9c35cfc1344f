package cart

import "errors"

// Status preconditions. Service methods wrap these in a PRECONDITION_FAILED
// error, so callers may match either the sentinel or the code.
var (
	ErrCartNotActive          = errors.New("cart is not active")
	ErrNotActive              = errors.New("only an active cart can be parked")
	ErrNotParked              = errors.New("only a parked cart can be activated")
	ErrNotPendingCheckout     = errors.New("cart is not pending checkout")
	ErrAlreadyPendingCheckout = errors.New("cart is already pending checkout")
)
