// Package tokenstore caches short-lived upstream credentials, currently
// GitHub App installation tokens.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)

// Token is a stored credential with its expiry.
type Token struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired checks if the token has expired.
func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// TTLRemaining returns how long the token stays valid, zero when
// already expired.
func (t *Token) TTLRemaining() time.Duration {
	d := time.Until(t.ExpiresAt)
	if d < 0 {
		return 0
	}
	return d
}

// Store defines the token storage interface.
type Store interface {
	// Set stores a token with the given key and TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get retrieves a token by key. Returns ErrTokenNotFound or ErrTokenExpired.
	Get(ctx context.Context, key string) (*Token, error)
	// Delete removes a token by key.
	Delete(ctx context.Context, key string) error
	// Cleanup removes all expired tokens and reports how many were dropped.
	Cleanup(ctx context.Context) (int, error)
}

// MintFunc produces a fresh credential value.
type MintFunc func(ctx context.Context) (string, error)

// Fetch returns the cached token for key, minting and storing a fresh
// one with ttl when the cache misses or the entry expired. The bool
// reports whether the token was freshly minted. A store write failure
// after a successful mint is not fatal; the token is still returned.
func Fetch(ctx context.Context, s Store, key string, ttl time.Duration, mint MintFunc) (*Token, bool, error) {
	tok, err := s.Get(ctx, key)
	if err == nil {
		return tok, false, nil
	}
	if !errors.Is(err, ErrTokenNotFound) && !errors.Is(err, ErrTokenExpired) {
		return nil, false, fmt.Errorf("reading token %q: %w", key, err)
	}

	value, err := mint(ctx)
	if err != nil {
		return nil, false, err
	}
	tok = &Token{Key: key, Value: value, ExpiresAt: time.Now().Add(ttl)}
	if err := s.Set(ctx, key, value, ttl); err != nil {
		return tok, true, err
	}
	return tok, true, nil
}
