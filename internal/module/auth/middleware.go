package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/domain"
)

const (
	sessionContextKey = "session_id"
	expiryContextKey  = "session_expires"
)

// Middleware resolves the session token from the Authorization header or the
// session cookie. A valid token stores the principal, its CO scope and the
// session ID on the request; anything else leaves the request anonymous for
// the gates to reject. A non-nil guard also turns away signed-out sessions
// and operators of inactive CO accounts.
func Middleware(tokens *Tokens, cookieName string, guard *Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			raw, _ = c.Cookie(cookieName)
		}
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil || !guard.Allow(c.Request.Context(), claims) {
			c.Next()
			return
		}

		p := claims.Principal()
		access.SetPrincipal(c, p)
		if p.Scoped() {
			c.Request = c.Request.WithContext(domain.WithScope(c.Request.Context(), p.COAccountID))
		}
		c.Set(sessionContextKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(expiryContextKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// SessionID returns the console session of the request, or "" when it is
// anonymous.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
