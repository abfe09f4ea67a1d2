package smscontent

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// SMSContentHandler handles REST API requests for the SMS content resource.
type SMSContentHandler struct {
	svc domain.SMSContentService
}

// NewSMSContentHandler creates a new SMSContentHandler with the given service.
func NewSMSContentHandler(svc domain.SMSContentService) *SMSContentHandler {
	return &SMSContentHandler{svc: svc}
}

// Create handles POST /api/v1/sms-contents.
func (h *SMSContentHandler) Create(c *gin.Context) {
	var req SMSContentRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sms, err := h.svc.CreateSMSContent(c.Request.Context(), req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    sms,
	})
}

// Get handles GET /api/v1/sms-contents/:id.
func (h *SMSContentHandler) Get(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	sms, err := h.svc.GetSMSContent(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, sms)
}

// List handles GET /api/v1/sms-contents.
func (h *SMSContentHandler) List(c *gin.Context) {
	result, err := h.svc.ListSMSContents(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Update handles PUT /api/v1/sms-contents/:id.
func (h *SMSContentHandler) Update(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	var req SMSContentRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sms, err := h.svc.UpdateSMSContent(c.Request.Context(), id, req.Input())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, sms)
}

// Delete handles DELETE /api/v1/sms-contents/:id.
func (h *SMSContentHandler) Delete(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteSMSContent(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Activate handles POST /api/v1/sms-contents/:id/activate.
func (h *SMSContentHandler) Activate(c *gin.Context) { h.setActive(c, true) }

// Deactivate handles POST /api/v1/sms-contents/:id/deactivate.
func (h *SMSContentHandler) Deactivate(c *gin.Context) { h.setActive(c, false) }

func (h *SMSContentHandler) setActive(c *gin.Context, active bool) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	sms, err := h.svc.SetSMSContentActive(c.Request.Context(), id, active)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, sms)
}

func (h *SMSContentHandler) id(c *gin.Context) (uint, bool) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return 0, false
	}
	return id, true
}
