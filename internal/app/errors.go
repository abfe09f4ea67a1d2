package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/htmx"
	"github.com/simp-lee/coconsole/internal/console/upsert"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// errorTemplates maps HTTP status codes to their error template paths.
var errorTemplates = map[int]string{
	http.StatusBadRequest:          "errors/400.html",
	http.StatusForbidden:           "errors/403.html",
	http.StatusNotFound:            "errors/404.html",
	http.StatusInternalServerError: "errors/500.html",
}

// renderError answers an error in the shape the client expects: a toast for
// console fragment requests, the error page for browsers and the JSON
// envelope for everyone else.
func renderError(c *gin.Context, code int, message string) {
	if htmx.IsRequest(c) {
		htmx.Notifier{}.Notify(c.Request.Context(), fragmentMessage(code), upsert.VariantError)
		c.Header(htmx.HeaderReswap, "none")
		c.Status(code)
		return
	}
	accept := strings.ToLower(c.GetHeader("Accept"))
	// acceptsHTML also matches */*, so an explicit JSON request wins first.
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		c.JSON(code, pkg.Response{Code: code, Message: message})
		return
	}
	if acceptsHTML(c) {
		renderHTMLErrorPage(c, code)
		return
	}
	c.JSON(code, pkg.Response{Code: code, Message: message})
}

// renderHTMLErrorPage renders the error template of code, falling back to
// errors/500.html for unmapped codes and to plain text when rendering panics.
func renderHTMLErrorPage(c *gin.Context, code int) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(code, "text/plain; charset=utf-8",
				[]byte(fmt.Sprintf("%d %s", code, defaultStatusText(code))))
		}
	}()

	tmpl, ok := errorTemplates[code]
	if !ok {
		tmpl = errorTemplates[http.StatusInternalServerError]
	}
	c.HTML(code, tmpl, gin.H{})
}

// acceptsHTML matches text/html, */* and an empty Accept header.
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html") ||
		strings.Contains(accept, "*/*") ||
		strings.TrimSpace(accept) == ""
}

func fragmentMessage(code int) string {
	switch code {
	case http.StatusNotFound:
		return "This page no longer exists, please reload"
	case http.StatusForbidden:
		return "You do not have access to this action"
	default:
		return "Something went wrong, please try again"
	}
}

func defaultStatusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusRequestTimeout:
		return "Request Timeout"
	case http.StatusTooManyRequests:
		return "Too Many Requests"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	default:
		return "Error"
	}
}
