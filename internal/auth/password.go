// Package auth holds the credential primitives: password hashing, session
// tokens and password reset tokens. It has no storage of its own; callers
// load and persist the models.User it mutates.
package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"CREATESHARE_BACK-END/internal/apperr"
)

// DefaultCost is the bcrypt work factor used for stored passwords
const DefaultCost = 12

// Hasher hashes and verifies passwords on a bounded number of goroutines.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher creates a new Hasher. workers <= 0 means one slot per CPU.
func NewHasher(cost, workers int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}
}

// Hash returns the bcrypt hash of plaintext
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", apperr.Timeout("hash password", err)
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation("password must be at most 72 bytes")
		}
		return "", apperr.Internal("hash password", err)
	}
	return string(hashed), nil
}

// Compare reports whether candidate matches hash. A malformed hash is an error,
// a mismatch is not.
func (h *Hasher) Compare(ctx context.Context, hash, candidate string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, apperr.Timeout("compare password", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, apperr.Internal("compare password", fmt.Errorf("bcrypt: %w", err))
	}
}
