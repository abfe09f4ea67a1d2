package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/htmx"
	"github.com/simp-lee/coconsole/internal/middleware"
	"github.com/simp-lee/coconsole/internal/pkg"
	"github.com/simp-lee/coconsole/web"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules    []Module
	DB         *gorm.DB
	Mode       string // "debug", "release" or "test"
	CSRFSecret string
	// StaticFS serves /static. nil resolves it from Mode.
	StaticFS fs.FS
}

// RegisterRoutes registers all application routes on r.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if strings.TrimSpace(deps.CSRFSecret) == "" {
		return errors.New("csrf secret is required")
	}

	if err := registerStaticRoutes(r, deps); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}

	r.GET("/health", healthHandler(deps.DB))

	// API routes authenticate with bearer tokens and skip CSRF.
	api := r.Group("/api/v1")

	// Console pages: htmx exchange first so CSRF rejections can toast.
	pages := r.Group("/")
	pages.Use(htmx.Middleware(), middleware.CSRF(deps.CSRFSecret))
	pages.GET("/", access.Authenticated(loginRedirect), homeHandler)

	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(api, pages)
	}

	r.NoRoute(htmx.Middleware(), noRouteHandler())

	return nil
}

// homeHandler renders the landing page listing the screens of the operator.
func homeHandler(c *gin.Context) {
	p, _ := access.CurrentPrincipal(c)
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":     "Home",
		"Principal": p,
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// loginRedirect sends anonymous visitors of the home page to the login page.
func loginRedirect(c *gin.Context, _ error) {
	if htmx.IsRequest(c) {
		htmx.Redirect(c, "/login")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// healthHandler pings the database and reports status.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus, status, code := "ok", "ok", http.StatusOK

		if err := pingDB(c.Request.Context(), db); err != nil {
			dbStatus, status, code = "error", "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"database": dbStatus,
			},
		})
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// noRouteHandler answers unknown paths: JSON under /api/, otherwise the
// error shape of renderError.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
			return
		}
		renderError(c, http.StatusNotFound, "not found")
	}
}

func registerStaticRoutes(r *gin.Engine, deps *RouteDeps) error {
	staticFS := deps.StaticFS
	if staticFS == nil {
		var err error
		if deps.Mode == gin.DebugMode {
			staticFS, err = resolveDebugStaticFS()
		} else {
			staticFS, err = fs.Sub(web.EmbeddedFS, "static")
		}
		if err != nil {
			return err
		}
	}

	if deps.Mode == gin.DebugMode {
		fileServer := http.StripPrefix("/static", http.FileServer(http.FS(staticFS)))
		r.GET("/static/*filepath", func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
		return nil
	}
	r.GET("/static/*filepath", cacheStaticHandler(http.FS(staticFS)))
	return nil
}

func resolveDebugStaticFS() (fs.FS, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("resolve current file path")
	}

	projectRoot := filepath.Clean(filepath.Join(filepath.Dir(currentFile), "..", ".."))
	staticDir := filepath.Join(projectRoot, "web", "static")
	if _, err := os.Stat(staticDir); err != nil {
		return nil, fmt.Errorf("stat static directory %q: %w", staticDir, err)
	}

	return os.DirFS(staticDir), nil
}

// cacheStaticHandler serves fsys with a one day Cache-Control.
func cacheStaticHandler(fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix("/static", http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
