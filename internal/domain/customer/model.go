package customer

import (
	"time"

	ierr "github.com/ordertally/ordertally/internal/errors"
	"github.com/ordertally/ordertally/internal/types"
)

// Customer represents the customer domain model. The email starts out
// unverified; VerifyEmail is the only way to obtain the verified variant.
// Orders refer to customers by ID only, so the two aggregates never share
// mutable state.
type Customer struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Email         types.UnverifiedEmail `json:"-"`
	VerifiedEmail *types.VerifiedEmail  `json:"-"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// New creates a customer with a format checked, unverified email
func New(id, name, email string) (*Customer, error) {
	if id == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Customer id cannot be empty").
			Mark(ierr.ErrValidation)
	}

	unverified, err := types.NewUnverifiedEmail(email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Customer{
		ID:        id,
		Name:      name,
		Email:     unverified,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// VerifyEmail returns a new Customer carrying the verified email variant.
// It fails with ErrEmailAlreadyVerified on a second call; the receiver is
// never modified.
func (c *Customer) VerifyEmail(at time.Time) (*Customer, error) {
	if c.VerifiedEmail != nil {
		return nil, ierr.WithError(ErrEmailAlreadyVerified).
			WithHintf("Email %s is already verified", c.Email.Address()).
			Mark(ierr.ErrInvalidOperation)
	}

	next := c.Clone()
	verified := next.Email.Verify(at)
	next.VerifiedEmail = &verified
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

// IsEmailVerified reports whether the customer went through email verification
func (c *Customer) IsEmailVerified() bool {
	return c.VerifiedEmail != nil
}

// Clone returns a deep copy of the customer
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}

	clone := *c
	if c.VerifiedEmail != nil {
		verified := *c.VerifiedEmail
		clone.VerifiedEmail = &verified
	}
	return &clone
}
