package coaccount

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/coconsole/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAPIRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc, _ := newTestService(t)
	h := NewCOAccountHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1/co-accounts")
	api.POST("", h.Create)
	api.GET("", h.List)
	api.GET("/:id", h.Get)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)
	api.POST("/:id/activate", h.Activate)
	api.POST("/:id/deactivate", h.Deactivate)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createBody = `{
	"code": "KOPI-01",
	"name": "Koperasi Sejahtera",
	"email": "admin@sejahtera.co.id",
	"country_code": "ID",
	"province_code": "ID-JK",
	"city_code": "ID-JK-JKS",
	"bank_accounts": [{"bank_name":"BCA","account_number":"1234567890","account_holder":"Koperasi","fund_type":"MAIN"}],
	"pic_users": [{"name":"Sari","email":"sari@sejahtera.co.id","password":"Secret123"}]
}`

func TestCOAccountHandler_Lifecycle(t *testing.T) {
	r := setupAPIRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/co-accounts", createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "Secret123")
	assert.NotContains(t, w.Body.String(), "password")

	var created struct {
		Data domain.COAccount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.Data.ID)
	require.Len(t, created.Data.BankAccounts, 1)

	w = doJSON(r, http.MethodGet, "/api/v1/co-accounts?status=ACTIVE&name__like=Sejahtera", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = doJSON(r, http.MethodPost, "/api/v1/co-accounts/1/deactivate", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/api/v1/co-accounts/1/deactivate", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/co-accounts/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/api/v1/co-accounts/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCOAccountHandler_Create_ValidationError(t *testing.T) {
	r := setupAPIRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/co-accounts", `{"code":"K","name":"Koperasi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
