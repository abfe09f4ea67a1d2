package operator

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// OperatorHandler handles REST API requests for the operator resource.
type OperatorHandler struct {
	svc domain.OperatorService
}

// NewOperatorHandler creates a new OperatorHandler with the given service.
func NewOperatorHandler(svc domain.OperatorService) *OperatorHandler {
	return &OperatorHandler{svc: svc}
}

// Create handles POST /api/v1/operators.
func (h *OperatorHandler) Create(c *gin.Context) {
	var req OperatorRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	op, err := h.svc.CreateOperator(c.Request.Context(), req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    op,
	})
}

// Get handles GET /api/v1/operators/:id.
func (h *OperatorHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	op, err := h.svc.GetOperator(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, op)
}

// List handles GET /api/v1/operators.
func (h *OperatorHandler) List(c *gin.Context) {
	result, err := h.svc.ListOperators(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PUT /api/v1/operators/:id.
func (h *OperatorHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	var req OperatorRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	op, err := h.svc.UpdateOperator(c.Request.Context(), id, req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, op)
}

// Delete handles DELETE /api/v1/operators/:id.
func (h *OperatorHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if err := h.svc.DeleteOperator(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}
