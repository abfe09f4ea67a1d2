package domain

import "context"

// Operator roles. A principal operator manages every community owner; a CO
// operator is scoped to the community owner account it belongs to.
const (
	RolePrincipal = "principal"
	RoleCO        = "co"
)

// Operator is a console user.
type Operator struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role         string `gorm:"size:20;not null;index" json:"role"`
	COAccountID  *uint  `gorm:"index" json:"co_account_id,omitempty"`
	PasswordHash string `gorm:"size:255" json:"-"`
}

// OperatorInput carries the editable operator fields.
type OperatorInput struct {
	Name        string
	Email       string
	Role        string
	COAccountID *uint
	Password    string
}

// OperatorRepository defines the data access interface for operators.
type OperatorRepository interface {
	Create(ctx context.Context, op *Operator) error
	GetByID(ctx context.Context, id uint) (*Operator, error)
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	List(ctx context.Context, req PageRequest) (*PageResult[Operator], error)
	Update(ctx context.Context, op *Operator) error
	Delete(ctx context.Context, id uint) error
}

// OperatorService defines the business logic interface for operators.
type OperatorService interface {
	CreateOperator(ctx context.Context, in OperatorInput) (*Operator, error)
	GetOperator(ctx context.Context, id uint) (*Operator, error)
	ListOperators(ctx context.Context, req PageRequest) (*PageResult[Operator], error)
	UpdateOperator(ctx context.Context, id uint, in OperatorInput) (*Operator, error)
	DeleteOperator(ctx context.Context, id uint) error
}
