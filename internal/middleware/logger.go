package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/htmx"
)

// Logger logs one line per request at a level following the status: errors
// for 5xx, warnings for 4xx, info otherwise. Console fragment requests are
// marked with htmx=true and signed-in requests carry the operator ID.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if htmx.IsRequest(c) {
			attrs = append(attrs, slog.Bool("htmx", true))
		}
		if p, ok := access.CurrentPrincipal(c); ok {
			attrs = append(attrs, slog.Uint64("operator_id", uint64(p.ID)))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}
