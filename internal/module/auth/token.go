package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/simp-lee/coconsole/internal/console/access"
)

const issuer = "coconsole"

// Token errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the JWT claims of a console session. The token ID doubles as
// the console session ID.
type Claims struct {
	jwt.RegisteredClaims
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	COAccountID uint   `json:"co_account_id,omitempty"`
}

// Principal returns the operator the claims were issued to.
func (c *Claims) Principal() access.Principal {
	id, _ := strconv.ParseUint(c.Subject, 10, 64)
	return access.Principal{
		ID:          uint(id),
		Name:        c.Name,
		Email:       c.Email,
		Role:        c.Role,
		COAccountID: c.COAccountID,
	}
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokens returns Tokens signing with secret. Tokens expire after expiry.
func NewTokens(secret string, expiry time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue signs a token for p with a fresh token ID.
func (t *Tokens) Issue(p access.Principal) (string, *Claims, error) {
	now := t.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(p.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name:        p.Name,
		Email:       p.Email,
		Role:        p.Role,
		COAccountID: p.COAccountID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse verifies token and returns its claims.
func (t *Tokens) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
