package coaccount

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// COAccountHandler handles REST API requests for the CO account resource.
type COAccountHandler struct {
	svc domain.COAccountService
}

// NewCOAccountHandler creates a new COAccountHandler with the given service.
func NewCOAccountHandler(svc domain.COAccountService) *COAccountHandler {
	return &COAccountHandler{svc: svc}
}

// Create handles POST /api/v1/co-accounts.
func (h *COAccountHandler) Create(c *gin.Context) {
	var req COAccountRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	co, err := h.svc.CreateCOAccount(c.Request.Context(), req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    co,
	})
}

// Get handles GET /api/v1/co-accounts/:id.
func (h *COAccountHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	co, err := h.svc.GetCOAccount(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, co)
}

// List handles GET /api/v1/co-accounts.
func (h *COAccountHandler) List(c *gin.Context) {
	result, err := h.svc.ListCOAccounts(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PUT /api/v1/co-accounts/:id.
func (h *COAccountHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	var req COAccountRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	co, err := h.svc.UpdateCOAccount(c.Request.Context(), id, req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, co)
}

// Delete handles DELETE /api/v1/co-accounts/:id.
func (h *COAccountHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if err := h.svc.DeleteCOAccount(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// Activate handles POST /api/v1/co-accounts/:id/activate.
func (h *COAccountHandler) Activate(c *gin.Context) {
	h.transition(c, h.svc.ActivateCOAccount)
}

// Deactivate handles POST /api/v1/co-accounts/:id/deactivate.
func (h *COAccountHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.svc.DeactivateCOAccount)
}

func (h *COAccountHandler) transition(c *gin.Context, fn func(ctx context.Context, id uint) (*domain.COAccount, error)) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	co, err := fn(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, co)
}
