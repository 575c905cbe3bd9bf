package market

import (
	"errors"
	"fmt"
)

// Validation errors: the request itself is wrong and retrying unchanged will
// not help. Everything else coming out of the repos is a persistence error and
// safe to retry, since every operation is a single transaction.
var (
	ErrEmptyCart       = errors.New("no items in cart for this seller")
	ErrSelfPurchase    = errors.New("you cannot order your own products")
	ErrMissingDelivery = errors.New("delivery address and phone number are required")
	ErrNotYourOrder    = errors.New("invalid order or you don't have permission to manage this order")
	ErrOrderNotFound   = errors.New("order not found")
	ErrCartLineGone    = errors.New("cart item no longer exists")
	ErrProductGone     = errors.New("product not available")
)

type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: only %d available, %d requested",
		e.ProductName, e.Available, e.Requested)
}

type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("this order cannot be moved to %s because it is currently %s", e.To, e.From)
}

// IsValidation reports whether err is a user-correctable rejection rather than
// a storage failure.
func IsValidation(err error) bool {
	var stock *InsufficientStockError
	var illegal *IllegalTransitionError
	switch {
	case errors.As(err, &stock), errors.As(err, &illegal):
		return true
	}
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrSelfPurchase) ||
		errors.Is(err, ErrMissingDelivery) ||
		errors.Is(err, ErrNotYourOrder) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCartLineGone) ||
		errors.Is(err, ErrProductGone)
}
