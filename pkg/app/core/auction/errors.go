package auction

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidReference = errors.New("reference price must be positive")
	ErrInvalidCollar    = errors.New("collar lower bound must be below upper bound")
	ErrNegativeQuantity = errors.New("order quantity cannot be negative")
	ErrSideMismatch     = errors.New("order side does not match book side")
	ErrUnknownOrderType = errors.New("order type has no pricing instruction")
	ErrOutsideCollar    = errors.New("clearing price outside collar")
	ErrVolumeOverflow   = errors.New("side quantity overflows int64")
)

// OrderError ties a validation failure to the offending order.
type OrderError struct {
	ID  string
	Err error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("order %s: %v", e.ID, e.Err)
}

func (e *OrderError) Unwrap() error { return e.Err }
