package domain

import "context"

// SMSContent is a reusable SMS template.
type SMSContent struct {
	BaseModel
	Code     string `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Title    string `gorm:"size:150;not null;index" json:"title"`
	Body     string `gorm:"size:480;not null" json:"body"`
	Language string `gorm:"size:8;not null;index" json:"language"`
	Active   bool   `gorm:"not null;index" json:"active"`
}

// SMSContentInput carries the editable SMS content fields.
type SMSContentInput struct {
	Code     string
	Title    string
	Body     string
	Language string
}

// SMSContentRepository defines the data access interface for SMS contents.
type SMSContentRepository interface {
	Create(ctx context.Context, s *SMSContent) error
	GetByID(ctx context.Context, id uint) (*SMSContent, error)
	List(ctx context.Context, req PageRequest) (*PageResult[SMSContent], error)
	Update(ctx context.Context, s *SMSContent) error
	Delete(ctx context.Context, id uint) error
}

// SMSContentService defines the business logic interface for SMS contents.
type SMSContentService interface {
	CreateSMSContent(ctx context.Context, in SMSContentInput) (*SMSContent, error)
	GetSMSContent(ctx context.Context, id uint) (*SMSContent, error)
	ListSMSContents(ctx context.Context, req PageRequest) (*PageResult[SMSContent], error)
	UpdateSMSContent(ctx context.Context, id uint, in SMSContentInput) (*SMSContent, error)
	DeleteSMSContent(ctx context.Context, id uint) error
	SetSMSContentActive(ctx context.Context, id uint, active bool) (*SMSContent, error)
}
