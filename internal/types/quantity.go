package types

import (
	ierr "github.com/ordertally/ordertally/internal/errors"
)

const (
	MinUnitQuantity = 1
	MaxUnitQuantity = 1000
)

// Quantity is a unit count bounded to [MinUnitQuantity, MaxUnitQuantity].
// NewQuantity is the only construction path, so a Quantity obtained from it
// is valid for its entire lifetime.
type Quantity struct {
	units int
}

// NewQuantity validates n and returns a Quantity
func NewQuantity(n int) (Quantity, error) {
	if n < MinUnitQuantity || n > MaxUnitQuantity {
		return Quantity{}, ierr.NewError("quantity out of range").
			WithHintf("Quantity must be between %d and %d, got %d", MinUnitQuantity, MaxUnitQuantity, n).
			Mark(ierr.ErrValidation)
	}
	return Quantity{units: n}, nil
}

// Units returns the validated unit count
func (q Quantity) Units() int {
	return q.units
}

// IsZero reports whether q is the zero value, i.e. never went through NewQuantity
func (q Quantity) IsZero() bool {
	return q.units == 0
}
