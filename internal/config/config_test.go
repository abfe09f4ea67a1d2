package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testYAML = `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
  csrf_secret: "test-csrf-secret-value"
database:
  driver: "postgres"
  sqlite:
    path: "data/test.db"
  postgres:
    host: "db.example.com"
    port: 5433
    user: "admin"
    password: "secret"
    dbname: "testdb"
    sslmode: "require"
  pool:
    max_idle_conns: 5
    max_open_conns: 50
    conn_max_lifetime: "30m"
log:
  level: "info"
  format: "json"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_FullYAML(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 3000)
	}
	if cfg.Server.Mode != "release" {
		t.Errorf("Server.Mode = %q, want %q", cfg.Server.Mode, "release")
	}
	if cfg.Server.CSRFSecret != "test-csrf-secret-value" {
		t.Errorf("Server.CSRFSecret = %q, want %q", cfg.Server.CSRFSecret, "test-csrf-secret-value")
	}

	// Database
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "postgres")
	}
	if cfg.Database.SQLite.Path != "data/test.db" {
		t.Errorf("SQLite.Path = %q, want %q", cfg.Database.SQLite.Path, "data/test.db")
	}
	if cfg.Database.Postgres.Host != "db.example.com" {
		t.Errorf("Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "db.example.com")
	}
	if cfg.Database.Postgres.Port != 5433 {
		t.Errorf("Postgres.Port = %d, want %d", cfg.Database.Postgres.Port, 5433)
	}
	if cfg.Database.Postgres.User != "admin" {
		t.Errorf("Postgres.User = %q, want %q", cfg.Database.Postgres.User, "admin")
	}
	if cfg.Database.Postgres.Password != "secret" {
		t.Errorf("Postgres.Password = %q, want %q", cfg.Database.Postgres.Password, "secret")
	}
	if cfg.Database.Postgres.DBName != "testdb" {
		t.Errorf("Postgres.DBName = %q, want %q", cfg.Database.Postgres.DBName, "testdb")
	}
	if cfg.Database.Postgres.SSLMode != "require" {
		t.Errorf("Postgres.SSLMode = %q, want %q", cfg.Database.Postgres.SSLMode, "require")
	}

	// Pool (M2)
	if cfg.Database.Pool.MaxIdleConns != 5 {
		t.Errorf("Pool.MaxIdleConns = %d, want %d", cfg.Database.Pool.MaxIdleConns, 5)
	}
	if cfg.Database.Pool.MaxOpenConns != 50 {
		t.Errorf("Pool.MaxOpenConns = %d, want %d", cfg.Database.Pool.MaxOpenConns, 50)
	}
	if cfg.Database.Pool.ConnMaxLifetime != "30m" {
		t.Errorf("Pool.ConnMaxLifetime = %q, want %q", cfg.Database.Pool.ConnMaxLifetime, "30m")
	}

	// Log
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	t.Setenv("APP__SERVER__PORT", "9090")
	t.Setenv("APP__DATABASE__DRIVER", "sqlite")
	t.Setenv("APP__LOG__LEVEL", "error")

	// PoolConfig fields contain underscores, a single _ is preserved.
	t.Setenv("APP__DATABASE__POOL__MAX_IDLE_CONNS", "20")
	t.Setenv("APP__DATABASE__POOL__MAX_OPEN_CONNS", "200")
	t.Setenv("APP__DATABASE__POOL__CONN_MAX_LIFETIME", "2h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d (env override)", cfg.Server.Port, 9090)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want %q (env override)", cfg.Database.Driver, "sqlite")
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want %q (env override)", cfg.Log.Level, "error")
	}

	// PoolConfig env overrides.
	if cfg.Database.Pool.MaxIdleConns != 20 {
		t.Errorf("Pool.MaxIdleConns = %d, want %d (env override)", cfg.Database.Pool.MaxIdleConns, 20)
	}
	if cfg.Database.Pool.MaxOpenConns != 200 {
		t.Errorf("Pool.MaxOpenConns = %d, want %d (env override)", cfg.Database.Pool.MaxOpenConns, 200)
	}
	if cfg.Database.Pool.ConnMaxLifetime != "2h" {
		t.Errorf("Pool.ConnMaxLifetime = %q, want %q (env override)", cfg.Database.Pool.ConnMaxLifetime, "2h")
	}

	// Non-overridden values should remain from YAML.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q (unchanged)", cfg.Server.Host, "127.0.0.1")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidServerMode(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "invalid"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid server mode, got nil")
	}
	if !strings.Contains(err.Error(), "server.mode") {
		t.Fatalf("Load() error = %v, want contains %q", err, "server.mode")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 0
  mode: "release"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for port 0, got nil")
	}

	path = writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 70000
  mode: "release"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)
	_, err = Load(path)
	if err == nil {
		t.Fatal("Load() expected error for port 70000, got nil")
	}
}

func TestLoad_InvalidServerHost(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: ""
  port: 3000
  mode: "release"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for empty server host, got nil")
	}
	if !strings.Contains(err.Error(), "server.host") {
		t.Fatalf("Load() error = %v, want contains %q", err, "server.host")
	}

	path = writeTestConfig(t, `server:
  host: "   "
  port: 3000
  mode: "release"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)

	_, err = Load(path)
	if err == nil {
		t.Fatal("Load() expected error for whitespace-only server host, got nil")
	}
	if !strings.Contains(err.Error(), "server.host") {
		t.Fatalf("Load() error = %v, want contains %q", err, "server.host")
	}
}

func TestLoad_InvalidDatabaseDriver(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "mysql"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for unsupported driver 'mysql', got nil")
	}
}

func TestLoad_PostgresMissingFields(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "postgres"
  postgres:
    host: ""
    user: "admin"
    dbname: "testdb"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for empty postgres host, got nil")
	}

	path = writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "postgres"
  postgres:
    host: "localhost"
    user: ""
    dbname: "testdb"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)
	_, err = Load(path)
	if err == nil {
		t.Fatal("Load() expected error for empty postgres user, got nil")
	}

	path = writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "postgres"
  postgres:
    host: "localhost"
    user: "admin"
    dbname: ""
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)
	_, err = Load(path)
	if err == nil {
		t.Fatal("Load() expected error for empty postgres dbname, got nil")
	}
}

func TestLoad_SQLiteMissingPath(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "sqlite"
  sqlite:
    path: ""
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for empty sqlite path, got nil")
	}
	if !strings.Contains(err.Error(), "database.sqlite.path") {
		t.Fatalf("Load() error = %v, want contains %q", err, "database.sqlite.path")
	}
}

func TestLoad_PostgresInvalidPortOrSSLMode(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "postgres"
  postgres:
    host: "localhost"
    port: 0
    user: "admin"
    password: "secret"
    dbname: "testdb"
    sslmode: "require"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for postgres port 0, got nil")
	}
	if !strings.Contains(err.Error(), "database.postgres.port") {
		t.Fatalf("Load() error = %v, want contains %q", err, "database.postgres.port")
	}

	path = writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "postgres"
  postgres:
    host: "localhost"
    port: 5432
    user: "admin"
    password: "secret"
    dbname: "testdb"
    sslmode: "invalid"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)

	_, err = Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid postgres sslmode, got nil")
	}
	if !strings.Contains(err.Error(), "database.postgres.sslmode") {
		t.Fatalf("Load() error = %v, want contains %q", err, "database.postgres.sslmode")
	}
}

func TestLoad_PostgresSSLMode_ReleaseRestriction(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "postgres"
  postgres:
    host: "localhost"
    port: 5432
    user: "admin"
    password: "secret"
    dbname: "testdb"
    sslmode: "disable"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for insecure postgres sslmode in release mode, got nil")
	}
	if !strings.Contains(err.Error(), "database.postgres.sslmode") {
		t.Fatalf("Load() error = %v, want contains %q", err, "database.postgres.sslmode")
	}

	path = writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "debug"
database:
  driver: "postgres"
  postgres:
    host: "localhost"
    port: 5432
    user: "admin"
    password: "secret"
    dbname: "testdb"
    sslmode: "disable"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`)

	if _, err = Load(path); err != nil {
		t.Fatalf("Load() expected debug mode to allow postgres sslmode disable, got error: %v", err)
	}
}

func TestLoad_NonPositiveDurations(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantContain string
	}{
		{
			name: "server timeout must be positive",
			yaml: `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
  timeout: "0s"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`,
			wantContain: "server.timeout",
		},
		{
			name: "cors max age must be positive",
			yaml: `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
  cors:
    max_age: "-1s"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
`,
			wantContain: "server.cors.max_age",
		},
		{
			name: "pool lifetime must be positive",
			yaml: `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "0s"
log:
  level: "info"
  format: "json"
`,
			wantContain: "database.pool.conn_max_lifetime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, tt.yaml)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error for non-positive duration, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantContain) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.wantContain)
			}
		})
	}
}

func TestLoad_OptionalDurationWhitespace_NormalizedAsUnset(t *testing.T) {
	path := writeTestConfig(t, `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
  timeout: "   "
  cors:
    max_age: "   "
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "   "
log:
  level: "info"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Timeout != "" {
		t.Errorf("Server.Timeout = %q, want empty string", cfg.Server.Timeout)
	}
	if cfg.Server.CORS.MaxAge != "" {
		t.Errorf("Server.CORS.MaxAge = %q, want empty string", cfg.Server.CORS.MaxAge)
	}
	if cfg.Database.Pool.ConnMaxLifetime != "" {
		t.Errorf("Database.Pool.ConnMaxLifetime = %q, want empty string", cfg.Database.Pool.ConnMaxLifetime)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	// Verify loading the actual project config.yaml works.
	cfg, err := Load("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("Load() error on project config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "sqlite")
	}
	if cfg.Database.Pool.MaxIdleConns != 10 {
		t.Errorf("Pool.MaxIdleConns = %d, want %d", cfg.Database.Pool.MaxIdleConns, 10)
	}
	if cfg.Database.Pool.MaxOpenConns != 100 {
		t.Errorf("Pool.MaxOpenConns = %d, want %d", cfg.Database.Pool.MaxOpenConns, 100)
	}
	if cfg.Database.Pool.ConnMaxLifetime != "1h" {
		t.Errorf("Pool.ConnMaxLifetime = %q, want %q", cfg.Database.Pool.ConnMaxLifetime, "1h")
	}
}

func TestDefaultConfigYAML_ContainsConsoleSections(t *testing.T) {
	b, err := os.ReadFile("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("read ../../configs/config.yaml: %v", err)
	}
	content := string(b)
	for _, key := range []string{"auth:", "jwt_secret:", "token_expiry:", "cookie_name:", "console:", "debounce:", "page_size:", "session_ttl:", "api_base_url:"} {
		if !strings.Contains(content, key) {
			t.Errorf("default config missing key %q", key)
		}
	}
}

func TestLoad_DefaultConfig_ConsoleFieldsAccessible(t *testing.T) {
	cfg, err := Load("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("Load() error on project config: %v", err)
	}

	if cfg.Auth.TokenExpiry != "24h" {
		t.Errorf("Auth.TokenExpiry = %q, want %q", cfg.Auth.TokenExpiry, "24h")
	}
	if cfg.Auth.CookieName != "console_session" {
		t.Errorf("Auth.CookieName = %q, want %q", cfg.Auth.CookieName, "console_session")
	}
	if got := cfg.Console.DebounceDuration(); got != 300*time.Millisecond {
		t.Errorf("Console.DebounceDuration() = %v, want 300ms", got)
	}
	if cfg.Console.PageSize != 10 {
		t.Errorf("Console.PageSize = %d, want 10", cfg.Console.PageSize)
	}
	if cfg.Console.APIBaseURL != "" {
		t.Errorf("Console.APIBaseURL = %q, want empty", cfg.Console.APIBaseURL)
	}
}

func TestCountSecretClasses(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   int
	}{
		{name: "empty string", secret: "", want: 0},
		{name: "lowercase only", secret: "abcdef", want: 1},
		{name: "uppercase only", secret: "ABCDEF", want: 1},
		{name: "digits only", secret: "123456", want: 1},
		{name: "symbols only", secret: "!@#$%^", want: 1},
		{name: "lower and upper", secret: "abcDEF", want: 2},
		{name: "lower upper digit", secret: "abcDEF123", want: 3},
		{name: "all four classes", secret: "abcDEF123!", want: 4},
		{name: "mixed with spaces", secret: "aA1 ", want: 4}, // space counts as symbol
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountSecretClasses(tt.secret)
			if got != tt.want {
				t.Errorf("CountSecretClasses(%q) = %d, want %d", tt.secret, got, tt.want)
			}
		})
	}
}

// validBaseYAML returns a minimal valid YAML config string (sqlite, debug mode).
func validBaseYAML(extras string) string {
	return `server:
  host: "127.0.0.1"
  port: 3000
  mode: "debug"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
` + extras
}

// validReleaseBaseYAML returns a minimal valid YAML config string (sqlite, release mode).
func validReleaseBaseYAML(extras string) string {
	return `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
  pool:
    max_idle_conns: 1
    max_open_conns: 1
    conn_max_lifetime: "1m"
log:
  level: "info"
  format: "json"
` + extras
}

func TestLoad_AuthConfig(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErr     bool
		wantContain string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty auth section uses defaults",
			yaml: validBaseYAML(""),
			check: func(t *testing.T, cfg *Config) {
				if cfg.Auth.JWTSecret != "" {
					t.Errorf("Auth.JWTSecret = %q, want empty", cfg.Auth.JWTSecret)
				}
				if cfg.Auth.TokenExpiry != "24h" {
					t.Errorf("Auth.TokenExpiry = %q, want %q", cfg.Auth.TokenExpiry, "24h")
				}
				if cfg.Auth.CookieName != "console_session" {
					t.Errorf("Auth.CookieName = %q, want %q", cfg.Auth.CookieName, "console_session")
				}
				if cfg.Auth.TokenExpiryDuration() != 24*time.Hour {
					t.Errorf("TokenExpiryDuration() = %v, want 24h", cfg.Auth.TokenExpiryDuration())
				}
			},
		},
		{
			name:        "short jwt_secret",
			yaml:        validBaseYAML("auth:\n  jwt_secret: \"tooshort\"\n"),
			wantErr:     true,
			wantContain: "auth.jwt_secret",
		},
		{
			name: "jwt_secret is trimmed",
			yaml: validBaseYAML("auth:\n  jwt_secret: \"  abcdefghijklmnopqrstuvwxyz123456  \"\n"),
			check: func(t *testing.T, cfg *Config) {
				if cfg.Auth.JWTSecret != "abcdefghijklmnopqrstuvwxyz123456" {
					t.Errorf("Auth.JWTSecret = %q", cfg.Auth.JWTSecret)
				}
			},
		},
		{
			name:        "invalid token_expiry",
			yaml:        validBaseYAML("auth:\n  token_expiry: \"not-a-duration\"\n"),
			wantErr:     true,
			wantContain: "auth.token_expiry",
		},
		{
			name:        "zero token_expiry",
			yaml:        validBaseYAML("auth:\n  token_expiry: \"0s\"\n"),
			wantErr:     true,
			wantContain: "auth.token_expiry",
		},
		{
			name:        "negative token_expiry",
			yaml:        validBaseYAML("auth:\n  token_expiry: \"-1h\"\n"),
			wantErr:     true,
			wantContain: "auth.token_expiry",
		},
		{
			name:        "cookie_name with separator",
			yaml:        validBaseYAML("auth:\n  cookie_name: \"a;b\"\n"),
			wantErr:     true,
			wantContain: "auth.cookie_name",
		},
		{
			name:        "bootstrap email without password",
			yaml:        validBaseYAML("auth:\n  bootstrap_email: \"admin@example.com\"\n"),
			wantErr:     true,
			wantContain: "auth.bootstrap_password",
		},
		{
			name: "bootstrap credentials",
			yaml: validBaseYAML("auth:\n  bootstrap_email: \" admin@example.com \"\n  bootstrap_password: \"Secret123\"\n"),
			check: func(t *testing.T, cfg *Config) {
				if cfg.Auth.BootstrapEmail != "admin@example.com" {
					t.Errorf("Auth.BootstrapEmail = %q", cfg.Auth.BootstrapEmail)
				}
			},
		},
		{
			name:        "release mode rejects jwt_secret with low complexity",
			yaml:        validReleaseBaseYAML("auth:\n  jwt_secret: \"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\"\n"),
			wantErr:     true,
			wantContain: "character classes",
		},
		{
			name: "release mode accepts jwt_secret with high complexity",
			yaml: validReleaseBaseYAML("auth:\n  jwt_secret: \"Abcd1234!Abcd1234!Abcd1234!Abcd1234!\"\n  token_expiry: \"8h\"\n"),
			check: func(t *testing.T, cfg *Config) {
				if cfg.Auth.TokenExpiryDuration() != 8*time.Hour {
					t.Errorf("TokenExpiryDuration() = %v, want 8h", cfg.Auth.TokenExpiryDuration())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeTestConfig(t, tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantContain) {
					t.Fatalf("Load() error = %v, want contains %q", err, tt.wantContain)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_ConsoleConfig(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErr     bool
		wantContain string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			yaml: validBaseYAML(""),
			check: func(t *testing.T, cfg *Config) {
				if cfg.Console.Debounce != "300ms" || cfg.Console.SessionTTL != "30m" || cfg.Console.APITimeout != "10s" {
					t.Errorf("Console = %+v, want default durations", cfg.Console)
				}
				if cfg.Console.PageSize != 10 {
					t.Errorf("Console.PageSize = %d, want 10", cfg.Console.PageSize)
				}
				if cfg.Console.SessionTTLDuration() != 30*time.Minute {
					t.Errorf("SessionTTLDuration() = %v, want 30m", cfg.Console.SessionTTLDuration())
				}
			},
		},
		{
			name: "explicit values",
			yaml: validBaseYAML("console:\n  debounce: \"150ms\"\n  page_size: 25\n  session_ttl: \"1h\"\n  api_base_url: \"https://console.example.com/api/v1/\"\n  api_timeout: \"3s\"\n"),
			check: func(t *testing.T, cfg *Config) {
				if cfg.Console.DebounceDuration() != 150*time.Millisecond {
					t.Errorf("DebounceDuration() = %v, want 150ms", cfg.Console.DebounceDuration())
				}
				if cfg.Console.PageSize != 25 {
					t.Errorf("Console.PageSize = %d, want 25", cfg.Console.PageSize)
				}
				if cfg.Console.APIBaseURL != "https://console.example.com/api/v1" {
					t.Errorf("Console.APIBaseURL = %q", cfg.Console.APIBaseURL)
				}
				if cfg.Console.APITimeoutDuration() != 3*time.Second {
					t.Errorf("APITimeoutDuration() = %v, want 3s", cfg.Console.APITimeoutDuration())
				}
			},
		},
		{
			name:        "invalid debounce",
			yaml:        validBaseYAML("console:\n  debounce: \"soon\"\n"),
			wantErr:     true,
			wantContain: "console.debounce",
		},
		{
			name:        "zero session_ttl",
			yaml:        validBaseYAML("console:\n  session_ttl: \"0s\"\n"),
			wantErr:     true,
			wantContain: "console.session_ttl",
		},
		{
			name:        "page_size too large",
			yaml:        validBaseYAML("console:\n  page_size: 500\n"),
			wantErr:     true,
			wantContain: "console.page_size",
		},
		{
			name:        "negative page_size",
			yaml:        validBaseYAML("console:\n  page_size: -1\n"),
			wantErr:     true,
			wantContain: "console.page_size",
		},
		{
			name:        "relative api_base_url",
			yaml:        validBaseYAML("console:\n  api_base_url: \"/api/v1\"\n"),
			wantErr:     true,
			wantContain: "console.api_base_url",
		},
		{
			name:        "unsupported api_base_url scheme",
			yaml:        validBaseYAML("console:\n  api_base_url: \"ftp://example.com\"\n"),
			wantErr:     true,
			wantContain: "console.api_base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeTestConfig(t, tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantContain) {
					t.Fatalf("Load() error = %v, want contains %q", err, tt.wantContain)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
