package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodeLength is the fixed width of generated codes.
const CodeLength = 6

// Record is the per-email OTP state. A fresh send always overwrites the
// previous record for the same address.
type Record struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
}

// Expired reports whether the record's verification window has passed.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Store is a TTL-capable key-value abstraction for OTP records, keyed by
// email address. Implementations must make delete atomic with respect to
// lookup: an entry removed by expiry while a verify is in flight behaves
// exactly like "record not found".
type Store interface {
	// Put stores or replaces the record for an email with the given TTL.
	Put(ctx context.Context, email string, rec Record, ttl time.Duration) error
	// Get returns the record for an email, or nil if none exists.
	Get(ctx context.Context, email string) (*Record, error)
	// IncrementAttempts bumps the failed-attempt counter and returns the
	// new value. Missing records return 0 without error.
	IncrementAttempts(ctx context.Context, email string) (int, error)
	// Delete removes the record for an email. Removing an absent record
	// is not an error.
	Delete(ctx context.Context, email string) error
	// CompareAndDelete atomically removes the record if its code matches,
	// reporting whether the record was consumed.
	CompareAndDelete(ctx context.Context, email, code string) (bool, error)
	// Close releases store resources.
	Close() error
}

// GenerateCode returns a uniformly random fixed-width decimal code.
// Leading zeros are preserved.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}

	return fmt.Sprintf("%0*d", CodeLength, n), nil
}
