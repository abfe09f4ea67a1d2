package customization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// CustomizationHandler handles REST API requests for the customization resource.
type CustomizationHandler struct {
	svc domain.CustomizationService
}

// NewCustomizationHandler creates a new CustomizationHandler with the given service.
func NewCustomizationHandler(svc domain.CustomizationService) *CustomizationHandler {
	return &CustomizationHandler{svc: svc}
}

// Create handles POST /api/v1/customizations.
func (h *CustomizationHandler) Create(c *gin.Context) {
	var req CustomizationRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	cust, err := h.svc.CreateCustomization(c.Request.Context(), req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    cust,
	})
}

// Get handles GET /api/v1/customizations/:id.
func (h *CustomizationHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cust, err := h.svc.GetCustomization(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, cust)
}

// List handles GET /api/v1/customizations.
func (h *CustomizationHandler) List(c *gin.Context) {
	result, err := h.svc.ListCustomizations(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Update handles PUT /api/v1/customizations/:id.
func (h *CustomizationHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CustomizationRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	cust, err := h.svc.UpdateCustomization(c.Request.Context(), id, req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, cust)
}

// Retry handles POST /api/v1/customizations/:id/steps/:step/retry.
// Without a step the first failed step is retried.
func (h *CustomizationHandler) Retry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cust, err := h.svc.RetryStep(c.Request.Context(), id, c.Param("step"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, cust)
}

// Report handles POST /api/v1/customizations/:id/steps/:step/report.
func (h *CustomizationHandler) Report(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StepReport
	if c.Request.ContentLength != 0 && !pkg.BindAndValidate(c, &req) {
		return
	}
	cust, err := h.svc.ReportStep(c.Request.Context(), id, c.Param("step"), req.Failure)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, cust)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return 0, false
	}
	return id, true
}
