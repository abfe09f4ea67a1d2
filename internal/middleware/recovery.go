package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/htmx"
	"github.com/simp-lee/coconsole/internal/console/upsert"
	"github.com/simp-lee/coconsole/internal/pkg"
)

const msgPanic = "Something went wrong, please try again"

// Recovery turns a panic into a 500 and logs it with its stack. Console
// fragment requests get an error toast and no swap so the screen stays
// usable, browsers get the errors/500.html page and API clients the JSON
// envelope.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", v),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			switch {
			case htmx.IsRequest(c):
				htmx.Notifier{}.Notify(c.Request.Context(), msgPanic, upsert.VariantError)
				c.Header(htmx.HeaderReswap, "none")
				c.AbortWithStatus(http.StatusInternalServerError)
			case wantsHTML(c):
				c.Abort()
				renderPanicPage(c)
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
					Code:    http.StatusInternalServerError,
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// renderPanicPage renders errors/500.html, falling back to plain text when
// no renderer is configured.
func renderPanicPage(c *gin.Context) {
	defer func() {
		if recover() != nil {
			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 Internal Server Error"))
		}
	}()
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html")
}
