package kyc

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/screen"
)

// KYCModule implements the app.Module interface for KYC requests.
type KYCModule struct {
	handler *KYCHandler
	screen  *Screen
	policy  *access.Policy
}

// NewModule creates a new KYCModule.
// Panics if any dependency is nil.
func NewModule(h *KYCHandler, s *Screen, policy *access.Policy) *KYCModule {
	if h == nil || s == nil || policy == nil {
		panic("kyc.NewModule: handler, screen and policy must not be nil")
	}
	return &KYCModule{handler: h, screen: s, policy: policy}
}

// RegisterRoutes registers KYC API and page routes.
func (m *KYCModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	need := func(privileges ...string) gin.HandlerFunc {
		return access.Require(m.policy, access.Need(access.KYC, privileges...), access.DenyJSON)
	}

	api.POST("/kyc", need(access.Create), m.handler.Submit)
	api.GET("/kyc/:id", need(access.Read), m.handler.Get)
	api.GET("/kyc", need(access.Read), m.handler.List)
	api.POST("/kyc/:id/approve", need(access.Manage), m.handler.Approve)
	api.POST("/kyc/:id/reject", need(access.Manage), m.handler.Reject)

	m.screen.Register(pages, screen.Deny)
}
