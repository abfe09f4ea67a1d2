package member

import (
	"time"

	"github.com/simp-lee/coconsole/internal/domain"
)

const dateLayout = "2006-01-02"

// MemberRequest is the write payload of a member, shared by the REST API and
// the console form.
type MemberRequest struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email       string `json:"email" form:"email" binding:"required,email"`
	Phone       string `json:"phone" form:"phone" binding:"omitempty,numeric,min=8,max=15"`
	COAccountID uint   `json:"co_account_id" form:"co_account_id"`
	JoinedAt    string `json:"joined_at" form:"joined_at" binding:"omitempty,datetime=2006-01-02"`
}

// Input converts the request into service input.
func (r MemberRequest) Input() (domain.MemberInput, error) {
	in := domain.MemberInput{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		COAccountID: r.COAccountID,
	}
	if r.JoinedAt != "" {
		t, err := time.Parse(dateLayout, r.JoinedAt)
		if err != nil {
			return in, domain.NewAppError(domain.CodeValidation, "joined date must be formatted as YYYY-MM-DD", err)
		}
		in.JoinedAt = t
	}
	return in, nil
}

// DraftOf returns the form draft of an existing member.
func DraftOf(m domain.Member) MemberRequest {
	r := MemberRequest{
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		COAccountID: m.COAccountID,
	}
	if !m.JoinedAt.IsZero() {
		r.JoinedAt = m.JoinedAt.Format(dateLayout)
	}
	return r
}
