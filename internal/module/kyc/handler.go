package kyc

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// KYCHandler handles REST API requests for the KYC resource.
type KYCHandler struct {
	svc domain.KYCService
}

// NewKYCHandler creates a new KYCHandler with the given service.
func NewKYCHandler(svc domain.KYCService) *KYCHandler {
	return &KYCHandler{svc: svc}
}

// Submit handles POST /api/v1/kyc.
func (h *KYCHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	k, err := h.svc.SubmitKYC(c.Request.Context(), req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    k,
	})
}

// Get handles GET /api/v1/kyc/:id.
func (h *KYCHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	k, err := h.svc.GetKYC(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, k)
}

// List handles GET /api/v1/kyc.
func (h *KYCHandler) List(c *gin.Context) {
	result, err := h.svc.ListKYC(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Approve handles POST /api/v1/kyc/:id/approve.
func (h *KYCHandler) Approve(c *gin.Context) { h.review(c, h.svc.ApproveKYC) }

// Reject handles POST /api/v1/kyc/:id/reject.
func (h *KYCHandler) Reject(c *gin.Context) { h.review(c, h.svc.RejectKYC) }

func (h *KYCHandler) review(c *gin.Context, fn func(ctx context.Context, id, reviewerID uint, note string) (*domain.KYCRequest, error)) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}
	var req ReviewRequest
	if c.Request.ContentLength != 0 && !pkg.BindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	reviewer, _ := access.FromContext(ctx)
	k, err := fn(ctx, id, reviewer.ID, req.Note)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, k)
}
