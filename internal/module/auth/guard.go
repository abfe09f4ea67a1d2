package auth

import (
	"context"
	"sync"
	"time"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/domain"
)

// ErrAccountInactive rejects an operator whose CO account is not active.
var ErrAccountInactive = domain.NewAppError(domain.CodeUnauthorized, "co account is not active", nil)

// Guard decides whether a session is still allowed after its token verified:
// the session must not have been signed out and a CO operator's account must
// be active. Revoked session IDs are kept in memory until their tokens expire.
type Guard struct {
	accounts domain.COAccountRepository

	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewGuard creates a Guard that looks CO accounts up in accounts.
func NewGuard(accounts domain.COAccountRepository) *Guard {
	return &Guard{accounts: accounts, revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke rejects session sid until it expires on its own.
func (g *Guard) Revoke(sid string, until time.Time) {
	if sid == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	for id, exp := range g.revoked {
		if !exp.After(now) {
			delete(g.revoked, id)
		}
	}
	if until.After(now) {
		g.revoked[sid] = until
	}
}

// Revoked reports whether session sid was signed out.
func (g *Guard) Revoked(sid string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	exp, ok := g.revoked[sid]
	return ok && exp.After(g.now())
}

// CheckAccount returns ErrAccountInactive when p belongs to a CO account that
// is missing or not active. Other roles always pass.
func (g *Guard) CheckAccount(ctx context.Context, p access.Principal) error {
	if p.Role != access.RoleCO || g.accounts == nil {
		return nil
	}
	if p.COAccountID == 0 {
		return ErrAccountInactive
	}
	co, err := g.accounts.GetByID(ctx, p.COAccountID)
	if err != nil {
		if domain.IsNotFound(err) {
			return ErrAccountInactive
		}
		return err
	}
	if co.Status != domain.StatusActive {
		return ErrAccountInactive
	}
	return nil
}

// Allow reports whether the session described by claims may proceed.
func (g *Guard) Allow(ctx context.Context, claims *Claims) bool {
	if g == nil {
		return true
	}
	if g.Revoked(claims.ID) {
		return false
	}
	return g.CheckAccount(ctx, claims.Principal()) == nil
}
