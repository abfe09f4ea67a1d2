package member

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// MemberHandler handles REST API requests for the member resource.
type MemberHandler struct {
	svc domain.MemberService
}

// NewMemberHandler creates a new MemberHandler with the given service.
func NewMemberHandler(svc domain.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// Create handles POST /api/v1/members.
func (h *MemberHandler) Create(c *gin.Context) {
	var req MemberRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		pkg.Error(c, err)
		return
	}

	m, err := h.svc.CreateMember(c.Request.Context(), in)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    m,
	})
}

// Get handles GET /api/v1/members/:id.
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	m, err := h.svc.GetMember(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, m)
}

// List handles GET /api/v1/members.
func (h *MemberHandler) List(c *gin.Context) {
	result, err := h.svc.ListMembers(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PUT /api/v1/members/:id.
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	var req MemberRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		pkg.Error(c, err)
		return
	}

	m, err := h.svc.UpdateMember(c.Request.Context(), id, in)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, m)
}

// Delete handles DELETE /api/v1/members/:id.
func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if err := h.svc.DeleteMember(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// Lock handles POST /api/v1/members/:id/lock.
func (h *MemberHandler) Lock(c *gin.Context) {
	h.transition(c, h.svc.LockMember)
}

// Unlock handles POST /api/v1/members/:id/unlock.
func (h *MemberHandler) Unlock(c *gin.Context) {
	h.transition(c, h.svc.UnlockMember)
}

func (h *MemberHandler) transition(c *gin.Context, fn func(ctx context.Context, id uint) (*domain.Member, error)) {
	id, err := pkg.ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	m, err := fn(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, m)
}
