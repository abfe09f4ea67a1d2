package coaccount

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/screen"
)

// COAccountModule implements the app.Module interface for CO accounts.
type COAccountModule struct {
	handler *COAccountHandler
	screen  *Screen
	policy  *access.Policy
}

// NewModule creates a new COAccountModule.
// Panics if any dependency is nil.
func NewModule(h *COAccountHandler, s *Screen, policy *access.Policy) *COAccountModule {
	if h == nil || s == nil || policy == nil {
		panic("coaccount.NewModule: handler, screen and policy must not be nil")
	}
	return &COAccountModule{handler: h, screen: s, policy: policy}
}

// RegisterRoutes registers CO account API and page routes.
func (m *COAccountModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	need := func(privileges ...string) gin.HandlerFunc {
		return access.Require(m.policy, access.Need(access.COAccount, privileges...), access.DenyJSON)
	}

	api.POST("/co-accounts", need(access.Create), m.handler.Create)
	api.GET("/co-accounts/:id", need(access.Read), m.handler.Get)
	api.GET("/co-accounts", need(access.Read), m.handler.List)
	api.PUT("/co-accounts/:id", need(access.Update), m.handler.Update)
	api.DELETE("/co-accounts/:id", need(access.Delete), m.handler.Delete)
	api.POST("/co-accounts/:id/activate", need(access.Manage), m.handler.Activate)
	api.POST("/co-accounts/:id/deactivate", need(access.Manage), m.handler.Deactivate)

	m.screen.Register(pages, screen.Deny)
}
