package region

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// RegionHandler serves the region option lists.
type RegionHandler struct {
	svc domain.RegionService
}

// NewRegionHandler creates a new RegionHandler with the given service.
func NewRegionHandler(svc domain.RegionService) *RegionHandler {
	return &RegionHandler{svc: svc}
}

// List handles GET /api/v1/regions?level=country|province|city&parent=<code>.
func (h *RegionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	parent := c.Query("parent")

	var (
		regions []domain.Region
		err     error
	)
	switch c.DefaultQuery("level", domain.RegionCountry) {
	case domain.RegionCountry:
		regions, err = h.svc.Countries(ctx)
	case domain.RegionProvince:
		regions, err = h.svc.Provinces(ctx, parent)
	case domain.RegionCity:
		regions, err = h.svc.Cities(ctx, parent)
	default:
		err = domain.NewAppError(domain.CodeValidation, "level must be one of: country, province, city", nil)
	}
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, regions)
}
