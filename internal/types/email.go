package types

import (
	"regexp"
	"strings"
	"time"

	ierr "github.com/ordertally/ordertally/internal/errors"
)

// Email Validation regex
// ^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	if email == "" || !emailRegex.MatchString(email) {
		return false
	}
	return true
}

// UnverifiedEmail is a format-checked email address that has not gone
// through verification. NewUnverifiedEmail is the only construction path.
type UnverifiedEmail struct {
	address string
}

// VerifiedEmail carries proof of verification. There is no public
// constructor: UnverifiedEmail.Verify is the sole producer, which makes
// "holds a VerifiedEmail" equivalent to "went through verification".
type VerifiedEmail struct {
	address    string
	verifiedAt time.Time
}

// NewUnverifiedEmail validates the address format and returns an UnverifiedEmail
func NewUnverifiedEmail(address string) (UnverifiedEmail, error) {
	address = strings.TrimSpace(address)
	if !IsValidEmail(address) {
		return UnverifiedEmail{}, ierr.NewError("invalid email address").
			WithHintf("Email %s is not a valid address", address).
			Mark(ierr.ErrValidation)
	}
	return UnverifiedEmail{address: address}, nil
}

// Address returns the email address
func (e UnverifiedEmail) Address() string {
	return e.address
}

// IsZero reports whether e never went through NewUnverifiedEmail
func (e UnverifiedEmail) IsZero() bool {
	return e.address == ""
}

// Verify produces the verified variant of this address
func (e UnverifiedEmail) Verify(at time.Time) VerifiedEmail {
	return VerifiedEmail{address: e.address, verifiedAt: at.UTC()}
}

// Address returns the email address
func (e VerifiedEmail) Address() string {
	return e.address
}

// VerifiedAt returns when the address was verified
func (e VerifiedEmail) VerifiedAt() time.Time {
	return e.verifiedAt
}
