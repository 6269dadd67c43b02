// Package requestid propagates request correlation IDs through
// context, honoring IDs supplied by upstream proxies.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the wire header carrying the request ID.
const Header = "X-Request-ID"

type ctxKey struct{}

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID in ctx, or "" when none is set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Ensure returns a context guaranteed to carry a request ID. An
// inbound ID wins; an ID already in ctx is kept; otherwise a fresh
// UUID is minted.
func Ensure(ctx context.Context, inbound string) (context.Context, string) {
	if inbound != "" {
		return WithRequestID(ctx, inbound), inbound
	}
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return WithRequestID(ctx, id), id
}
