package auction

import "math"

// Order is an immutable snapshot of a resting order for one auction run.
// Only Type and Timestamp take part in priority and price computation.
type Order struct {
	ID        string
	Side      Side
	Type      OrderType
	Timestamp int64 // arrival sequence, strictly increasing per venue
	Quantity  int64
	Remaining int64
}

// Displayed reports whether the order's interest is visible to the market.
func (o Order) Displayed() bool {
	return !o.Type.Hidden
}

// validateSide checks that every order in orders is on side and has a
// non-negative quantity, and that the side's total quantity fits in an int64.
// Every volume sum over the side is then bounded by that total.
func validateSide(side Side, orders []Order) error {
	var total int64
	for i := range orders {
		if orders[i].Side != side {
			return &OrderError{ID: orders[i].ID, Err: ErrSideMismatch}
		}
		if orders[i].Quantity < 0 {
			return &OrderError{ID: orders[i].ID, Err: ErrNegativeQuantity}
		}
		if orders[i].Type.Pricing == nil {
			return &OrderError{ID: orders[i].ID, Err: ErrUnknownOrderType}
		}
		if orders[i].Quantity > math.MaxInt64-total {
			return &OrderError{ID: orders[i].ID, Err: ErrVolumeOverflow}
		}
		total += orders[i].Quantity
	}
	return nil
}
