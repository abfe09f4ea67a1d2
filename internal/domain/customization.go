package domain

import "context"

// Provisioning states shared by customizations and their steps.
const (
	ProvisionPending    = "PENDING"
	ProvisionInProgress = "IN_PROGRESS"
	ProvisionDone       = "DONE"
	ProvisionFailed     = "FAILED"
)

// DefaultProvisioningSteps are created, in order, for every new customization.
var DefaultProvisioningSteps = []string{"create_bundle", "apply_theme", "publish_build"}

// Customization is a white-label app build requested for a CO.
type Customization struct {
	BaseModel
	COAccountID  uint               `gorm:"index;not null" json:"co_account_id"`
	AppName      string             `gorm:"size:100;not null;index" json:"app_name"`
	PrimaryColor string             `gorm:"size:7;not null" json:"primary_color"`
	Status       string             `gorm:"size:20;not null;index" json:"status"`
	Steps        []ProvisioningStep `gorm:"foreignKey:CustomizationID;constraint:OnDelete:CASCADE" json:"steps"`
}

// ProvisioningStep is one step of a customization build.
type ProvisioningStep struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	CustomizationID uint   `gorm:"index;not null" json:"-"`
	Name            string `gorm:"size:50;not null" json:"name"`
	Position        int    `gorm:"not null" json:"position"`
	Status          string `gorm:"size:20;not null" json:"status"`
	Error           string `gorm:"size:500" json:"error,omitempty"`
}

// CustomizationInput carries the editable customization fields.
type CustomizationInput struct {
	COAccountID  uint
	AppName      string
	PrimaryColor string
}

// CustomizationRepository defines the data access interface for customizations.
type CustomizationRepository interface {
	Create(ctx context.Context, c *Customization) error
	GetByID(ctx context.Context, id uint) (*Customization, error)
	List(ctx context.Context, req PageRequest) (*PageResult[Customization], error)
	Update(ctx context.Context, c *Customization) error
	SaveStep(ctx context.Context, c *Customization, step *ProvisioningStep) error
}

// CustomizationService defines the business logic interface for customizations.
type CustomizationService interface {
	CreateCustomization(ctx context.Context, in CustomizationInput) (*Customization, error)
	GetCustomization(ctx context.Context, id uint) (*Customization, error)
	ListCustomizations(ctx context.Context, req PageRequest) (*PageResult[Customization], error)
	UpdateCustomization(ctx context.Context, id uint, in CustomizationInput) (*Customization, error)
	RetryStep(ctx context.Context, id uint, step string) (*Customization, error)
	ReportStep(ctx context.Context, id uint, step string, failure string) (*Customization, error)
}
