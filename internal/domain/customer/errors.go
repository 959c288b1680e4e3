package customer

import "errors"

var (
	// ErrCustomerNotFound is returned when a customer is not found
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrEmailAlreadyVerified is returned when verifying an already verified email
	ErrEmailAlreadyVerified = errors.New("email already verified")
)
