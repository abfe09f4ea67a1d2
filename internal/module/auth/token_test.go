package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simp-lee/coconsole/internal/console/access"
)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	p := access.Principal{ID: 42, Name: "Sari", Email: "sari@example.com", Role: access.RoleCO, COAccountID: 7}

	signed, issued, err := tokens.Issue(p)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.ID == "" {
		t.Fatal("expected a token ID")
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.ID != issued.ID {
		t.Errorf("token ID = %q; want %q", claims.ID, issued.ID)
	}
	if got := claims.Principal(); got != p {
		t.Errorf("principal = %+v; want %+v", got, p)
	}
}

func TestTokens_UniqueIDs(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	_, a, _ := tokens.Issue(access.Principal{ID: 1, Role: access.RolePrincipal})
	_, b, _ := tokens.Issue(access.Principal{ID: 1, Role: access.RolePrincipal})
	if a.ID == b.ID {
		t.Error("two logins must not share a session ID")
	}
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens("test-secret", time.Minute)
	now := time.Now()
	tokens.now = func() time.Time { return now }

	signed, _, err := tokens.Issue(access.Principal{ID: 1, Role: access.RolePrincipal})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tokens.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := tokens.Parse(signed); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v; want ErrExpiredToken", err)
	}
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	signed, _, err := NewTokens("other-secret", time.Hour).Issue(access.Principal{ID: 1, Role: access.RolePrincipal})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", Issuer: issuer, Subject: "1"},
		Role:             access.RolePrincipal,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, tok := range map[string]string{
		"wrong secret": signed,
		"alg none":     unsigned,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := tokens.Parse(tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v; want ErrInvalidToken", err)
			}
		})
	}
}
