package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/domain"
)

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
}

// authService implements Service.
type authService struct {
	tokens    *Tokens
	operators domain.OperatorRepository
	guard     *Guard
}

// NewService creates a new auth Service. guard, when set, refuses operators of
// inactive CO accounts.
func NewService(tokens *Tokens, operators domain.OperatorRepository, guard *Guard) Service {
	return &authService{tokens: tokens, operators: operators, guard: guard}
}

// Login authenticates an operator by email and password and returns a session token.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	op, err := s.operators.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// never reveal whether the operator exists
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	p := access.Principal{ID: op.ID, Name: op.Name, Email: op.Email, Role: op.Role}
	if op.COAccountID != nil {
		p.COAccountID = *op.COAccountID
	}
	if s.guard != nil {
		if err := s.guard.CheckAccount(ctx, p); err != nil {
			return nil, err
		}
	}
	token, claims, err := s.tokens.Issue(p)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}

	return &TokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}
