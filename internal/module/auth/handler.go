package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/htmx"
	"github.com/simp-lee/coconsole/internal/console/session"
	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/middleware"
	"github.com/simp-lee/coconsole/internal/pkg"
)

const (
	msgBadCredentials  = "Invalid email or password"
	msgAccountInactive = "Your CO account is not active"
)

// AuthHandler handles login and logout for the REST API and the console.
type AuthHandler struct {
	svc    Service
	guard  *Guard
	store  *session.Store
	cookie string
	maxAge time.Duration
}

// NewHandler creates a new AuthHandler. guard revokes the token on logout;
// store holds the console screens that logout discards; cookie names the
// session cookie, kept for maxAge.
func NewHandler(svc Service, guard *Guard, store *session.Store, cookie string, maxAge time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, guard: guard, store: store, cookie: cookie, maxAge: maxAge}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tokenResp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, tokenResp)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := access.CurrentPrincipal(c)
	if !ok {
		access.DenyJSON(c, domain.ErrUnauthorized)
		return
	}
	pkg.Success(c, MeResponse{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role, COAccountID: p.COAccountID})
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := access.CurrentPrincipal(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "auth/login.html", gin.H{
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// LoginSubmit handles POST /login.
func (h *AuthHandler) LoginSubmit(c *gin.Context) {
	email := c.PostForm("email")
	tokenResp, err := h.svc.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		msg := msgBadCredentials
		status := http.StatusUnauthorized
		if errors.Is(err, ErrAccountInactive) {
			msg = msgAccountInactive
		} else if !domain.IsUnauthorized(err) {
			msg = "Sign in is unavailable, please try again"
			status = http.StatusInternalServerError
		}
		c.HTML(status, "auth/login.html", gin.H{
			"CSRFToken": middleware.GetCSRFToken(c),
			"Email":     email,
			"Error":     msg,
		})
		return
	}

	h.setCookie(c, tokenResp.Token, int(h.maxAge.Seconds()))
	if htmx.IsRequest(c) {
		htmx.Redirect(c, "/")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles POST /logout. The token of the session stops working and
// its screens are closed.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := SessionID(c); sid != "" {
		if h.guard != nil {
			h.guard.Revoke(sid, sessionExpiry(c, h.maxAge))
		}
		if h.store != nil {
			h.store.Drop(session.Key(sid, ""))
		}
	}
	h.setCookie(c, "", -1)
	if htmx.IsRequest(c) {
		htmx.Redirect(c, "/login")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// sessionExpiry returns when the token of the request expires, falling back
// to a full token lifetime from now.
func sessionExpiry(c *gin.Context, lifetime time.Duration) time.Time {
	if v, ok := c.Get(expiryContextKey); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Now().Add(lifetime)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, value, maxAge, "/", "", gin.Mode() == gin.ReleaseMode, true)
}
