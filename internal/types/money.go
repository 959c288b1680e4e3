package types

import (
	ierr "github.com/ordertally/ordertally/internal/errors"
	"github.com/shopspring/decimal"
)

// Monetary amounts are fixed-point decimals end to end. Floats would drift
// when summed, so they never appear on any money path.

// ParseAmount parses a decimal string into a monetary amount.
// It is the single entry point for money crossing the DTO boundary.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, ierr.NewError("amount is required").
			WithHint("Amount must be a decimal string ex 12.50").
			Mark(ierr.ErrValidation)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("Invalid amount %s", s).
			Mark(ierr.ErrValidation)
	}

	return amount, nil
}

// FormatAmountToString renders an amount for responses.
func FormatAmountToString(amount decimal.Decimal) string {
	return amount.String()
}
