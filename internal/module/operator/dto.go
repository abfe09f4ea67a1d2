package operator

import "github.com/simp-lee/coconsole/internal/domain"

// OperatorRequest is the write payload of an operator, shared by the REST
// API and the console form. An empty password keeps the current one on update.
type OperatorRequest struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email       string `json:"email" form:"email" binding:"required,email"`
	Role        string `json:"role" form:"role" binding:"required,oneof=principal co"`
	COAccountID uint   `json:"co_account_id" form:"co_account_id"`
	Password    string `json:"password,omitempty" form:"password" binding:"omitempty,password"`
}

// Input converts the request into service input.
func (r OperatorRequest) Input() domain.OperatorInput {
	in := domain.OperatorInput{
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		Password: r.Password,
	}
	if r.COAccountID != 0 {
		id := r.COAccountID
		in.COAccountID = &id
	}
	return in
}

// DraftOf returns the form draft of an existing operator. The password is
// never sent back.
func DraftOf(op domain.Operator) OperatorRequest {
	r := OperatorRequest{Name: op.Name, Email: op.Email, Role: op.Role}
	if op.COAccountID != nil {
		r.COAccountID = *op.COAccountID
	}
	return r
}
