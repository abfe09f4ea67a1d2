package operator

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/screen"
)

// OperatorModule implements the app.Module interface for console operators.
type OperatorModule struct {
	handler *OperatorHandler
	screen  *Screen
	policy  *access.Policy
}

// NewModule creates a new OperatorModule.
// Panics if any dependency is nil.
func NewModule(h *OperatorHandler, s *Screen, policy *access.Policy) *OperatorModule {
	if h == nil || s == nil || policy == nil {
		panic("operator.NewModule: handler, screen and policy must not be nil")
	}
	return &OperatorModule{handler: h, screen: s, policy: policy}
}

// RegisterRoutes registers operator API and page routes.
func (m *OperatorModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	need := func(privileges ...string) gin.HandlerFunc {
		return access.Require(m.policy, access.Need(access.Operator, privileges...), access.DenyJSON)
	}

	api.POST("/operators", need(access.Create), m.handler.Create)
	api.GET("/operators/:id", need(access.Read), m.handler.Get)
	api.GET("/operators", need(access.Read), m.handler.List)
	api.PUT("/operators/:id", need(access.Update), m.handler.Update)
	api.DELETE("/operators/:id", need(access.Delete), m.handler.Delete)

	m.screen.Register(pages, screen.Deny)
}
