package smscontent

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/screen"
)

// SMSContentModule implements the app.Module interface for SMS contents.
type SMSContentModule struct {
	handler *SMSContentHandler
	screen  *Screen
	policy  *access.Policy
}

// NewModule creates a new SMSContentModule.
// Panics if any dependency is nil.
func NewModule(h *SMSContentHandler, s *Screen, policy *access.Policy) *SMSContentModule {
	if h == nil || s == nil || policy == nil {
		panic("smscontent.NewModule: handler, screen and policy must not be nil")
	}
	return &SMSContentModule{handler: h, screen: s, policy: policy}
}

// RegisterRoutes registers SMS content API and page routes.
func (m *SMSContentModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	need := func(privileges ...string) gin.HandlerFunc {
		return access.Require(m.policy, access.Need(access.SMSContent, privileges...), access.DenyJSON)
	}

	api.POST("/sms-contents", need(access.Create), m.handler.Create)
	api.GET("/sms-contents/:id", need(access.Read), m.handler.Get)
	api.GET("/sms-contents", need(access.Read), m.handler.List)
	api.PUT("/sms-contents/:id", need(access.Update), m.handler.Update)
	api.DELETE("/sms-contents/:id", need(access.Delete), m.handler.Delete)
	api.POST("/sms-contents/:id/activate", need(access.Manage), m.handler.Activate)
	api.POST("/sms-contents/:id/deactivate", need(access.Manage), m.handler.Deactivate)

	m.screen.Register(pages, screen.Deny)
}
