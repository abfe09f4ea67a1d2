package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/config"
	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/screen"
	"github.com/simp-lee/coconsole/internal/console/session"
	"github.com/simp-lee/coconsole/internal/middleware"
	"github.com/simp-lee/coconsole/internal/module/auth"
	"github.com/simp-lee/coconsole/internal/module/operator"
	"github.com/simp-lee/coconsole/internal/module/region"
	"github.com/simp-lee/coconsole/internal/pkg"
	"github.com/simp-lee/coconsole/web"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	logger *logger.Logger
	store  *session.Store
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, writeTimeout time.Duration) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// defaultWriteTimeout applies when server.timeout is unset.
const defaultWriteTimeout = 60 * time.Second

// New creates and wires a fully configured App from cfg: logging, database,
// modules, screens, middleware, templates and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	success := false

	// 1. Logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := config.CloseDatabase(db); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	// 3. Schema and seed data.
	ctx := context.Background()
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	svc := newServices(db)
	if err := region.Seed(ctx, svc.regionRepo); err != nil {
		return nil, fmt.Errorf("seed regions: %w", err)
	}
	if email := strings.TrimSpace(cfg.Auth.BootstrapEmail); email != "" {
		created, err := operator.Bootstrap(ctx, svc.operatorRepo, svc.operators, email, cfg.Auth.BootstrapPassword)
		if err != nil {
			return nil, fmt.Errorf("bootstrap operator: %w", err)
		}
		if created {
			log.Info("bootstrap operator created", slog.String("email", email))
		}
	}

	// 4. Secrets.
	csrfSecret, err := resolveSecret("csrf_secret", cfg.Server.CSRFSecret, cfg.Server.Mode, log.Logger)
	if err != nil {
		return nil, err
	}
	jwtSecret, err := resolveSecret("jwt_secret", cfg.Auth.JWTSecret, cfg.Server.Mode, log.Logger)
	if err != nil {
		return nil, err
	}
	if err := pkg.RegisterBindingValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	// 5. Console screens and modules.
	tokens := auth.NewTokens(jwtSecret, cfg.Auth.TokenExpiryDuration())
	guard := auth.NewGuard(svc.coAccountRepo)
	store := session.NewStore(cfg.Console.SessionTTLDuration(), log.Logger)
	defer func() {
		if !success {
			store.Close()
		}
	}()
	policy := access.DefaultPolicy()

	src := localSources(svc)
	if base := strings.TrimSpace(cfg.Console.APIBaseURL); base != "" {
		src = remoteSources(base, cfg.Console.APITimeoutDuration(), tokens, log.Logger)
		log.Info("console screens read from remote api", slog.String("base_url", base))
	}

	cookie := cfg.Auth.CookieName
	if strings.TrimSpace(cookie) == "" {
		cookie = "console_session"
	}
	modules, err := buildModules(moduleDeps{
		services: svc,
		sources:  src,
		env: screen.Env{
			Store:     store,
			Policy:    policy,
			Logger:    log.Logger,
			Delay:     cfg.Console.DebounceDuration(),
			Limit:     cfg.Console.PageSize,
			SessionID: auth.SessionID,
		},
		validator: pkg.NewValidator(),
		tokens:    tokens,
		guard:     guard,
		cookie:    cookie,
		expiry:    cfg.Auth.TokenExpiryDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("build modules: %w", err)
	}

	// 6. Engine and middleware.
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	corsConfig, err := resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)
	if err != nil {
		return nil, err
	}
	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestID(middleware.RequestIDConfig{}),
		middleware.Logger(log.Logger),
		middleware.CORS(corsConfig),
	)
	if rl := cfg.Server.RateLimit; rl.Enabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{RPS: rl.RPS, Burst: rl.Burst}))
	}
	if cfg.Server.Timeout != "" {
		d, err := time.ParseDuration(cfg.Server.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse server.timeout: %w", err)
		}
		engine.Use(middleware.Timeout(d))
	}
	engine.Use(auth.Middleware(tokens, cookie, guard))

	// 7. Templates.
	debug := cfg.Server.Mode == gin.DebugMode
	var fsys fs.FS = web.EmbeddedFS
	if debug {
		fsys, err = resolveDebugWebFS()
		if err != nil {
			return nil, fmt.Errorf("resolve debug template fs: %w", err)
		}
	}
	renderer, err := NewTemplateRenderer(fsys, debug, access.FuncMap(policy))
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer

	// 8. Routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules:    modules,
		DB:         db,
		Mode:       cfg.Server.Mode,
		CSRFSecret: csrfSecret,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		logger: log,
		store:  store,
		cfg:    cfg,
	}, nil
}

// Handler returns the HTTP handler of the app.
func (a *App) Handler() http.Handler {
	return a.engine
}

// resolveSecret returns the configured secret, or a random one outside
// release mode.
func resolveSecret(name, secret, mode string, log *slog.Logger) (string, error) {
	if !isPlaceholderSecret(secret) {
		return secret, nil
	}
	if mode == gin.ReleaseMode {
		return "", fmt.Errorf("%s must be a non-placeholder value in release mode", name)
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate %s: %w", name, err)
	}
	log.Warn("no secret configured, using random secret in non-release mode (will change on restart)", slog.String("secret", name))
	return hex.EncodeToString(b), nil
}

func isPlaceholderSecret(secret string) bool {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return true
	}

	switch strings.ToLower(trimmed) {
	case "change-me-to-a-random-secret", "change-me-in-env":
		return true
	default:
		return false
	}
}

// resolveCORSConfig builds the CORS middleware config. In release mode an
// empty allowlist denies cross-origin requests.
func resolveCORSConfig(mode string, c config.CORSConfig) (middleware.CORSConfig, error) {
	corsConfig := middleware.DefaultCORSConfig()

	switch {
	case len(c.AllowOrigins) > 0:
		corsConfig.AllowOrigins = c.AllowOrigins
	case mode == gin.ReleaseMode:
		corsConfig.AllowOrigins = []string{}
	}
	if len(c.AllowMethods) > 0 {
		corsConfig.AllowMethods = c.AllowMethods
	}
	if len(c.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = c.AllowHeaders
	}
	corsConfig.AllowCredentials = c.AllowCredentials
	if c.MaxAge != "" {
		d, err := time.ParseDuration(c.MaxAge)
		if err != nil {
			return corsConfig, fmt.Errorf("parse server.cors.max_age: %w", err)
		}
		corsConfig.MaxAge = d
	}

	return corsConfig, nil
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	exePath, err := os.Executable()
	if err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	return nil, errors.New("debug web directory not found")
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It shuts down gracefully within 5 seconds, then closes the screen sessions,
// the database and the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	writeTimeout := defaultWriteTimeout
	if d, err := time.ParseDuration(a.cfg.Server.Timeout); err == nil && d > 0 {
		// Leave the handler time to answer after its context expires.
		writeTimeout = d + 5*time.Second
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine, writeTimeout)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if a.store != nil {
		a.store.Close()
	}

	if a.db != nil {
		if err := config.CloseDatabase(a.db); err != nil {
			log.Error("database close error", slog.Any("error", err))
		} else {
			log.Info("database connection closed")
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
