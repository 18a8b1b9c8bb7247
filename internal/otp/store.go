package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// codeTTL is how long a stored code stays verifiable.
const codeTTL = 10 * time.Minute

// Verification failure kinds. ErrMismatch keeps the entry so the caller may
// retry; the other two leave no entry behind.
var (
	ErrNotFound = errors.New("verification code not found")
	ErrExpired  = errors.New("verification code expired")
	ErrMismatch = errors.New("invalid verification code")
)

// Store keeps pending one-time codes keyed by phone number. At most one
// live code exists per number; storing a new code overwrites any previous
// unconsumed one. A successful Verify consumes the entry.
type Store interface {
	// Store saves code for phone with the standard TTL, replacing any
	// existing entry.
	Store(phone, code string) error
	// Verify checks the submitted code. It returns nil and consumes the
	// entry on success, or one of ErrNotFound, ErrExpired, ErrMismatch.
	Verify(phone, code string) error
}

// Generate produces a 6-digit decimal code in [100000, 999999] using a
// cryptographically secure source.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
