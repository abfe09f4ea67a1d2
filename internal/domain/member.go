package domain

import (
	"context"
	"time"
)

// Member is an end user registered under a community owner account.
type Member struct {
	BaseModel
	Name        string    `gorm:"size:100;not null;index" json:"name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Status      string    `gorm:"size:20;not null;index" json:"status"`
	COAccountID uint      `gorm:"index;not null" json:"co_account_id"`
	JoinedAt    time.Time `gorm:"index" json:"joined_at"`
}

// MemberInput carries the editable member fields.
type MemberInput struct {
	Name        string
	Email       string
	Phone       string
	COAccountID uint
	JoinedAt    time.Time
}

// MemberRepository defines the data access interface for members.
type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uint) (*Member, error)
	List(ctx context.Context, req PageRequest) (*PageResult[Member], error)
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id uint) error
}

// MemberService defines the business logic interface for members.
type MemberService interface {
	CreateMember(ctx context.Context, in MemberInput) (*Member, error)
	GetMember(ctx context.Context, id uint) (*Member, error)
	ListMembers(ctx context.Context, req PageRequest) (*PageResult[Member], error)
	UpdateMember(ctx context.Context, id uint, in MemberInput) (*Member, error)
	DeleteMember(ctx context.Context, id uint) error
	LockMember(ctx context.Context, id uint) (*Member, error)
	UnlockMember(ctx context.Context, id uint) (*Member, error)
}
