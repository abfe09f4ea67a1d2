package access

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

const principalContextKey = "principal"

// SetPrincipal stores p in the gin context and in the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalContextKey, p)
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}

// CurrentPrincipal returns the principal stored by SetPrincipal.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalContextKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// DenyFunc writes the response for a request that may not pass a gate. err is
// domain.ErrUnauthorized without a principal and domain.ErrForbidden otherwise.
type DenyFunc func(c *gin.Context, err error)

// DenyJSON is the DenyFunc of the REST API.
func DenyJSON(c *gin.Context, err error) {
	if domain.IsUnauthorized(err) {
		err = domain.NewAppError(domain.CodeUnauthorized, "authentication required", nil)
	}
	pkg.Error(c, err)
}

// Require returns a middleware that only lets principals allowed by g through.
func Require(p *Policy, g Gate, deny DenyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			deny(c, domain.ErrUnauthorized)
			c.Abort()
			return
		}
		if !p.Allows(principal.Role, g) {
			deny(c, domain.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Authenticated returns a middleware that lets any signed-in principal through.
func Authenticated(deny DenyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			deny(c, domain.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// FuncMap returns the "can" template helper:
//
//	{{ if can .Principal "member" "update" }}...{{ end }}
func FuncMap(p *Policy) template.FuncMap {
	return template.FuncMap{
		"can": func(principal Principal, resource string, privileges ...string) bool {
			return p.Can(principal, resource, privileges...)
		},
	}
}
