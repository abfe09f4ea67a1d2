package customization

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/screen"
)

// CustomizationModule implements the app.Module interface for app customizations.
type CustomizationModule struct {
	handler *CustomizationHandler
	screen  *Screen
	policy  *access.Policy
}

// NewModule creates a new CustomizationModule.
// Panics if any dependency is nil.
func NewModule(h *CustomizationHandler, s *Screen, policy *access.Policy) *CustomizationModule {
	if h == nil || s == nil || policy == nil {
		panic("customization.NewModule: handler, screen and policy must not be nil")
	}
	return &CustomizationModule{handler: h, screen: s, policy: policy}
}

// RegisterRoutes registers customization API and page routes. Step reports
// come from the build pipeline, which authenticates as a principal operator.
func (m *CustomizationModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	need := func(privileges ...string) gin.HandlerFunc {
		return access.Require(m.policy, access.Need(access.Customization, privileges...), access.DenyJSON)
	}

	api.POST("/customizations", need(access.Create), m.handler.Create)
	api.GET("/customizations/:id", need(access.Read), m.handler.Get)
	api.GET("/customizations", need(access.Read), m.handler.List)
	api.PUT("/customizations/:id", need(access.Update), m.handler.Update)
	api.POST("/customizations/:id/retry", need(access.Manage), m.handler.Retry)
	api.POST("/customizations/:id/steps/:step/retry", need(access.Manage), m.handler.Retry)
	api.POST("/customizations/:id/steps/:step/report", need(access.Create, access.Manage), m.handler.Report)

	m.screen.Register(pages, screen.Deny)
}
