package kyc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/domain"
)

func setupAPIRouter(t *testing.T) (*gin.Engine, fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	h := NewKYCHandler(f.svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		access.SetPrincipal(c, access.Principal{ID: 42, Role: access.RolePrincipal})
	})
	api := r.Group("/api/v1/kyc")
	api.POST("", h.Submit)
	api.GET("", h.List)
	api.GET("/:id", h.Get)
	api.POST("/:id/approve", h.Approve)
	api.POST("/:id/reject", h.Reject)
	return r, f
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestKYCHandler_SubmitAndApprove(t *testing.T) {
	r, f := setupAPIRouter(t)
	m := f.member(t, "a@example.com", 1)

	w := do(r, http.MethodPost, "/api/v1/kyc", `{"member_id":`+itoa(m.ID)+`,"full_name":"Alice","document_type":"PASSPORT","document_number":"C1234567"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/v1/kyc/1/approve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data domain.KYCRequest `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.ReviewedBy == nil || *resp.Data.ReviewedBy != 42 {
		t.Errorf("reviewed_by = %v; want 42", resp.Data.ReviewedBy)
	}

	if w := do(r, http.MethodPost, "/api/v1/kyc/1/reject", `{"note":"changed my mind"}`); w.Code != http.StatusConflict {
		t.Errorf("reject after approve: expected 409, got %d", w.Code)
	}
}

func TestKYCHandler_RejectNeedsNote(t *testing.T) {
	r, f := setupAPIRouter(t)
	m := f.member(t, "a@example.com", 1)
	do(r, http.MethodPost, "/api/v1/kyc", `{"member_id":`+itoa(m.ID)+`,"full_name":"Alice","document_type":"PASSPORT","document_number":"C1234567"}`)

	if w := do(r, http.MethodPost, "/api/v1/kyc/1/reject", `{"note":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/v1/kyc/1/reject", `{"note":"expired passport"}`); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
