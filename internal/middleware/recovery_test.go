package middleware

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/htmx"
)

func setupRecoveryRouter(buf *bytes.Buffer, withTemplates bool) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(newTestLogger(buf)), htmx.Middleware())
	if withTemplates {
		r.SetHTMLTemplate(template.Must(template.New("errors/500.html").Parse(`<h1>Something broke</h1>`)))
	}
	r.GET("/panic", func(c *gin.Context) { panic("test panic") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func panicRequest(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecovery_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := panicRequest(setupRecoveryRouter(&buf, false), nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal server error") {
		t.Errorf("body = %q", w.Body.String())
	}
	for _, want := range []string{"panic recovered", "test panic", "stack="} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRecovery_HTMLPage(t *testing.T) {
	var buf bytes.Buffer
	w := panicRequest(setupRecoveryRouter(&buf, true), map[string]string{"Accept": "text/html"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Something broke") {
		t.Errorf("body = %q, want the error page", w.Body.String())
	}
}

func TestRecovery_HTMLWithoutRenderer(t *testing.T) {
	var buf bytes.Buffer
	w := panicRequest(setupRecoveryRouter(&buf, false), map[string]string{"Accept": "text/html"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "500") {
		t.Errorf("body = %q, want plain fallback", w.Body.String())
	}
}

func TestRecovery_HTMXToast(t *testing.T) {
	var buf bytes.Buffer
	w := panicRequest(setupRecoveryRouter(&buf, true), map[string]string{"HX-Request": "true", "Accept": "text/html"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := w.Header().Get("HX-Trigger"); !strings.Contains(got, "showToast") {
		t.Errorf("HX-Trigger = %q, want a toast", got)
	}
	if got := w.Header().Get("HX-Reswap"); got != "none" {
		t.Errorf("HX-Reswap = %q, want none", got)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	r := setupRecoveryRouter(&buf, false)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK || buf.Len() != 0 {
		t.Errorf("status = %d, log = %q", w.Code, buf.String())
	}
}
