package order

import (
	"errors"
)

var (
	// ErrOrderNotFound is returned when an order is not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrLineItemNotFound is returned when a line item id is not present in the order
	ErrLineItemNotFound = errors.New("line item not found")

	// ErrDuplicateLineItem is returned when adding a line item whose id already exists
	ErrDuplicateLineItem = errors.New("duplicate line item")

	// ErrInvalidAmount is returned when a line item amount is negative
	ErrInvalidAmount = errors.New("invalid line item amount")

	// ErrCurrencyMismatch is returned when a line item currency differs from the order currency
	ErrCurrencyMismatch = errors.New("line item currency mismatch")
)

// IsNotFoundError checks if an error is a line item or order not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrLineItemNotFound)
}
