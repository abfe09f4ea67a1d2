package domain

import "context"

type scopeKey struct{}

// WithScope returns a context restricted to the data of one CO account.
func WithScope(ctx context.Context, coAccountID uint) context.Context {
	return context.WithValue(ctx, scopeKey{}, coAccountID)
}

// ScopeFrom returns the CO account ctx is restricted to, if any.
func ScopeFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(scopeKey{}).(uint)
	return id, ok && id != 0
}

// InScope reports whether data of coAccountID is visible under ctx.
func InScope(ctx context.Context, coAccountID uint) bool {
	id, scoped := ScopeFrom(ctx)
	return !scoped || id == coAccountID
}
