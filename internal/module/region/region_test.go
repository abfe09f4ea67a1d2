package region

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/testutil"
)

func newTestService(t *testing.T) (domain.RegionService, domain.RegionRepository) {
	t.Helper()
	repo := NewRegionRepository(testutil.NewSQLiteDB(t, &domain.Region{}))
	require.NoError(t, Seed(context.Background(), repo))
	return NewRegionService(repo), repo
}

func TestSeed_IsIdempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, repo))

	countries, err := svc.Countries(ctx)
	require.NoError(t, err)
	assert.Len(t, countries, 3)
	assert.Equal(t, "Indonesia", countries[0].Name)
}

func TestHierarchy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	provinces, err := svc.Provinces(ctx, "ID")
	require.NoError(t, err)
	var names []string
	for _, p := range provinces {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Bali", "DKI Jakarta", "Jawa Barat", "Jawa Timur"}, names)

	cities, err := svc.Cities(ctx, "ID-JB")
	require.NoError(t, err)
	assert.Len(t, cities, 2)

	none, err := svc.Cities(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoads(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	loads := Loads(svc, "MY", "MY-10")
	require.Len(t, loads, 3)
	assert.Equal(t, KeyCountries, loads[0].Key)

	provinces, err := loads[1].Load(ctx)
	require.NoError(t, err)
	assert.Len(t, provinces, 2)

	cities, err := loads[2].Load(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Petaling Jaya", cities[0].Label)
	assert.Equal(t, "MY-10-PJY", cities[0].Value)
}

func TestRegionHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	m := NewModule(NewRegionHandler(svc))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-Anonymous") == "" {
			access.SetPrincipal(c, access.Principal{ID: 1, Role: access.RoleCO, COAccountID: 1})
		}
	})
	m.RegisterRoutes(r.Group("/api/v1"), r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/regions?level=city&parent=ID-JK", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []domain.Region `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/regions?level=district", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/regions", nil)
	req.Header.Set("X-Test-Anonymous", "1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
