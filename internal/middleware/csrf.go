package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/htmx"
	"github.com/simp-lee/coconsole/internal/console/upsert"
	"github.com/simp-lee/coconsole/internal/pkg"
)

const (
	csrfCookieName = "_csrf_token"
	csrfFormField  = "_csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfContextKey = "CSRFToken"
)

const msgCSRF = "Your session form expired, reload the page and try again"

// csrfGuard issues and verifies double-submit tokens of the form
// hex(nonce) + "." + base64url(HMAC-SHA256(nonce, secret)).
type csrfGuard struct {
	secret []byte
	secure bool
}

// CSRF protects the console pages. Safe requests get a signed token cookie
// and the token in the context for templates; unsafe requests must echo it
// in the "_csrf_token" form field or the X-CSRF-Token header. Console
// fragment requests that fail get an error toast, so register
// htmx.Middleware first.
func CSRF(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "csrf secret is required",
			})
		}
	}
	g := &csrfGuard{secret: []byte(secret), secure: gin.Mode() == gin.ReleaseMode}
	return g.handle
}

func (g *csrfGuard) handle(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		token, err := c.Cookie(csrfCookieName)
		if err != nil || !g.valid(token) {
			if token, err = g.issue(); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
					Code:    http.StatusInternalServerError,
					Message: "failed to generate csrf token",
				})
				return
			}
			g.setCookie(c, token)
		}
		c.Set(csrfContextKey, token)
		c.Next()
	default:
		token, ok := g.verify(c)
		if !ok {
			reject(c)
			return
		}
		c.Set(csrfContextKey, token)
		c.Next()
	}
}

// verify reports whether the submitted token is valid and matches the cookie.
func (g *csrfGuard) verify(c *gin.Context) (string, bool) {
	cookie, err := c.Cookie(csrfCookieName)
	if err != nil || cookie == "" {
		return "", false
	}
	submitted := c.GetHeader(csrfHeaderName)
	if submitted == "" {
		submitted = c.PostForm(csrfFormField)
	}
	if !g.valid(cookie) || !g.valid(submitted) {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(cookie), []byte(submitted)) != 1 {
		return "", false
	}
	return cookie, true
}

func (g *csrfGuard) issue() (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	n := hex.EncodeToString(nonce)
	return n + "." + g.sign(n), nil
}

func (g *csrfGuard) sign(nonce string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (g *csrfGuard) valid(token string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(g.sign(nonce))) == 1
}

func (g *csrfGuard) setCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   g.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func reject(c *gin.Context) {
	if htmx.IsRequest(c) {
		htmx.Notifier{}.Notify(c.Request.Context(), msgCSRF, upsert.VariantError)
		c.Header(htmx.HeaderReswap, "none")
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, pkg.Response{
		Code:    http.StatusForbidden,
		Message: "csrf token missing or invalid",
	})
}

// GetCSRFToken returns the token the CSRF middleware stored for templates,
// or "" outside a protected route.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}
