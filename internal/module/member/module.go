package member

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/screen"
)

// MemberModule implements the app.Module interface for the member domain.
type MemberModule struct {
	handler *MemberHandler
	screen  *Screen
	policy  *access.Policy
}

// NewModule creates a new MemberModule.
// Panics if any dependency is nil.
func NewModule(h *MemberHandler, s *Screen, policy *access.Policy) *MemberModule {
	if h == nil || s == nil || policy == nil {
		panic("member.NewModule: handler, screen and policy must not be nil")
	}
	return &MemberModule{handler: h, screen: s, policy: policy}
}

// RegisterRoutes registers member API and page routes.
func (m *MemberModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	need := func(privileges ...string) gin.HandlerFunc {
		return access.Require(m.policy, access.Need(access.Member, privileges...), access.DenyJSON)
	}

	api.POST("/members", need(access.Create), m.handler.Create)
	api.GET("/members/:id", need(access.Read), m.handler.Get)
	api.GET("/members", need(access.Read), m.handler.List)
	api.PUT("/members/:id", need(access.Update), m.handler.Update)
	api.DELETE("/members/:id", need(access.Delete), m.handler.Delete)
	api.POST("/members/:id/lock", need(access.Manage), m.handler.Lock)
	api.POST("/members/:id/unlock", need(access.Manage), m.handler.Unlock)

	m.screen.Register(pages, screen.Deny)
}
