package order

import (
	ierr "github.com/ordertally/ordertally/internal/errors"
	"github.com/ordertally/ordertally/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem represents a single line item in an order. The ID is opaque and
// caller supplied; it only has to be unique within the owning order.
// Amount is the billed amount for the whole line.
type LineItem struct {
	ID          string          `json:"id"`
	DisplayName *string         `json:"display_name,omitempty"`
	Quantity    types.Quantity  `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
}

// Clone returns a deep copy of the line item
func (i *LineItem) Clone() *LineItem {
	if i == nil {
		return nil
	}

	clone := *i
	if i.DisplayName != nil {
		name := *i.DisplayName
		clone.DisplayName = &name
	}
	return &clone
}

// Validate validates the line item
func (i *LineItem) Validate() error {
	if i.ID == "" {
		return ierr.NewError("line item validation failed").
			WithHint("Line item id is required").
			Mark(ierr.ErrValidation)
	}

	if i.Amount.IsNegative() {
		return ierr.WithError(ErrInvalidAmount).
			WithHintf("Line item amount must be non negative, got %s", i.Amount).
			Mark(ierr.ErrValidation)
	}

	return nil
}
