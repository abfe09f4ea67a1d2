package region

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
)

// RegionModule implements the app.Module interface for regions.
type RegionModule struct {
	handler *RegionHandler
}

// NewModule creates a new RegionModule.
// Panics if h is nil.
func NewModule(h *RegionHandler) *RegionModule {
	if h == nil {
		panic("region.NewModule: handler must not be nil")
	}
	return &RegionModule{handler: h}
}

// RegisterRoutes registers the region API. Regions are readable by every
// signed-in operator.
func (m *RegionModule) RegisterRoutes(api *gin.RouterGroup, _ *gin.RouterGroup) {
	api.GET("/regions", access.Authenticated(access.DenyJSON), m.handler.List)
}
