package domain

import (
	"context"
	"time"
)

// KYC request states.
const (
	KYCPending  = "PENDING"
	KYCApproved = "APPROVED"
	KYCRejected = "REJECTED"
)

// KYCRequest is an identity verification request of a member.
type KYCRequest struct {
	BaseModel
	Reference      string     `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	MemberID       uint       `gorm:"index;not null" json:"member_id"`
	COAccountID    uint       `gorm:"index;not null" json:"co_account_id"`
	FullName       string     `gorm:"size:150;not null;index" json:"full_name"`
	DocumentType   string     `gorm:"size:20;not null" json:"document_type"`
	DocumentNumber string     `gorm:"size:32;not null" json:"document_number"`
	Status         string     `gorm:"size:20;not null;index" json:"status"`
	Note           string     `gorm:"size:500" json:"note"`
	ReviewedBy     *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

// KYCInput carries the fields of a new KYC request.
type KYCInput struct {
	MemberID       uint
	FullName       string
	DocumentType   string
	DocumentNumber string
}

// KYCRepository defines the data access interface for KYC requests.
type KYCRepository interface {
	Create(ctx context.Context, k *KYCRequest) error
	GetByID(ctx context.Context, id uint) (*KYCRequest, error)
	List(ctx context.Context, req PageRequest) (*PageResult[KYCRequest], error)
	Update(ctx context.Context, k *KYCRequest) error
}

// KYCService defines the business logic interface for KYC requests.
type KYCService interface {
	SubmitKYC(ctx context.Context, in KYCInput) (*KYCRequest, error)
	GetKYC(ctx context.Context, id uint) (*KYCRequest, error)
	ListKYC(ctx context.Context, req PageRequest) (*PageResult[KYCRequest], error)
	ApproveKYC(ctx context.Context, id, reviewerID uint, note string) (*KYCRequest, error)
	RejectKYC(ctx context.Context, id, reviewerID uint, note string) (*KYCRequest, error)
}
