// Package password hashes and verifies user passwords with bcrypt.
// Pool caps how many hashes run at once.
package password

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultCost = 10

	MinLength = 6
	MaxLength = 72 // bcrypt ignores input past 72 bytes
)

var (
	ErrTooShort = fmt.Errorf("password must be at least %d characters", MinLength)
	ErrTooLong  = fmt.Errorf("password must be at most %d bytes", MaxLength)
)

type Hasher interface {
	// Hash returns a salted hash that embeds its own salt and cost.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. It never errors on a mismatch.
	Verify(plaintext, hash string) bool
}

// ValidatePolicy checks plaintext against the length rules.
func ValidatePolicy(plaintext string) error {
	switch {
	case len(plaintext) < MinLength:
		return ErrTooShort
	case len(plaintext) > MaxLength:
		return ErrTooLong
	}
	return nil
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to DefaultCost when cost is outside bcrypt's range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int { return h.cost }

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if err := ValidatePolicy(plaintext); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Pool runs a Hasher with at most n concurrent operations.
type Pool struct {
	hasher Hasher
	sem    *semaphore.Weighted
}

func NewPool(h Hasher, n int) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{hasher: h, sem: semaphore.NewWeighted(int64(n))}
}

func (p *Pool) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("password: wait for hash slot: %w", err)
	}
	defer p.sem.Release(1)
	return p.hasher.Hash(plaintext)
}

// Verify only errors when ctx ends before a slot frees up.
func (p *Pool) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("password: wait for hash slot: %w", err)
	}
	defer p.sem.Release(1)
	return p.hasher.Verify(plaintext, hash), nil
}

// IsPolicyError reports whether err came from ValidatePolicy.
func IsPolicyError(err error) bool {
	return errors.Is(err, ErrTooShort) || errors.Is(err, ErrTooLong)
}
