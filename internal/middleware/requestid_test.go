package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRequestIDRouter(cfg RequestIDConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(cfg))
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	r.GET("/ctx", func(c *gin.Context) {
		c.String(http.StatusOK, findAttrValue(logger.FromContext(c.Request.Context()), "request_id"))
	})
	return r
}

func findAttrValue(attrs []slog.Attr, key string) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value.String()
		}
	}
	return ""
}

func getWithID(r http.Handler, path, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_GeneratesID(t *testing.T) {
	w := getWithID(setupRequestIDRouter(RequestIDConfig{}), "/id", "")

	id := w.Header().Get("X-Request-ID")
	if len(id) != 36 {
		t.Fatalf("expected a UUID, got %q", id)
	}
	if w.Body.String() != id {
		t.Errorf("context ID %q differs from header %q", w.Body.String(), id)
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	r := setupRequestIDRouter(RequestIDConfig{})
	a := getWithID(r, "/id", "").Body.String()
	b := getWithID(r, "/id", "").Body.String()
	if a == b {
		t.Errorf("expected unique IDs, got %q twice", a)
	}
}

func TestRequestID_Upstream(t *testing.T) {
	tests := []struct {
		name   string
		trust  bool
		header string
		reused bool
	}{
		{"ignored unless trusted", false, "upstream-1", false},
		{"reused when trusted", true, "upstream-1", true},
		{"64 chars reused", true, strings.Repeat("a", 64), true},
		{"too long", true, strings.Repeat("a", 65), false},
		{"bad charset", true, "id with spaces", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getWithID(setupRequestIDRouter(RequestIDConfig{TrustUpstream: tt.trust}), "/id", tt.header)
			got := w.Header().Get("X-Request-ID")
			if (got == tt.header) != tt.reused {
				t.Errorf("X-Request-ID = %q, reused want %v", got, tt.reused)
			}
		})
	}
}

func TestRequestID_StoredInGoContext(t *testing.T) {
	w := getWithID(setupRequestIDRouter(RequestIDConfig{TrustUpstream: true}), "/ctx", "ctx-123")
	if w.Body.String() != "ctx-123" {
		t.Errorf("context attr = %q, want ctx-123", w.Body.String())
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetRequestID(c); got != "" {
		t.Errorf("GetRequestID = %q, want empty", got)
	}
}
