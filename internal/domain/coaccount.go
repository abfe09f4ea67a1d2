package domain

import "context"

// Fund types of a pooled bank account. At most one account of a CO carries
// FundTypeMain; it receives default settlement.
const (
	FundTypeMain      = "MAIN"
	FundTypeSecondary = "SECONDARY"
)

// COAccount is a community owner tenant.
type COAccount struct {
	BaseModel
	Code         string        `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name         string        `gorm:"size:150;not null;index" json:"name"`
	Email        string        `gorm:"size:255;not null" json:"email"`
	Phone        string        `gorm:"size:20" json:"phone"`
	Status       string        `gorm:"size:20;not null;index" json:"status"`
	CountryCode  string        `gorm:"size:8" json:"country_code"`
	ProvinceCode string        `gorm:"size:16" json:"province_code"`
	CityCode     string        `gorm:"size:16" json:"city_code"`
	BankAccounts []BankAccount `gorm:"foreignKey:COAccountID;constraint:OnDelete:CASCADE" json:"bank_accounts"`
	Addresses    []Address     `gorm:"foreignKey:COAccountID;constraint:OnDelete:CASCADE" json:"addresses"`
	Contacts     []Contact     `gorm:"foreignKey:COAccountID;constraint:OnDelete:CASCADE" json:"contacts"`
	PICUsers     []PICUser     `gorm:"foreignKey:COAccountID;constraint:OnDelete:CASCADE" json:"pic_users"`
}

// BankAccount is a settlement account of a CO.
type BankAccount struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	COAccountID   uint   `gorm:"index;not null" json:"-"`
	BankName      string `gorm:"size:100;not null" json:"bank_name" form:"bank_name" validate:"required,max=100"`
	AccountNumber string `gorm:"size:32;not null" json:"account_number" form:"account_number" validate:"required,numeric,min=10,max=16"`
	AccountHolder string `gorm:"size:150;not null" json:"account_holder" form:"account_holder" validate:"required,max=150"`
	FundType      string `gorm:"size:16;not null" json:"fund_type" form:"fund_type" validate:"required,oneof=MAIN SECONDARY"`
}

// Address is a postal address of a CO.
type Address struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	COAccountID uint   `gorm:"index;not null" json:"-"`
	Label       string `gorm:"size:50" json:"label" form:"label" validate:"required,max=50"`
	Line        string `gorm:"size:255;not null" json:"line" form:"line" validate:"required,max=255"`
	PostalCode  string `gorm:"size:10" json:"postal_code" form:"postal_code" validate:"omitempty,numeric,len=5"`
}

// Contact is a contact person of a CO.
type Contact struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	COAccountID uint   `gorm:"index;not null" json:"-"`
	Name        string `gorm:"size:100;not null" json:"name" form:"name" validate:"required,max=100"`
	Phone       string `gorm:"size:20" json:"phone" form:"phone" validate:"required,numeric,min=8,max=15"`
	Email       string `gorm:"size:255" json:"email" form:"email" validate:"omitempty,email"`
}

// PICUser is an administrative user scoped to a CO.
type PICUser struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	COAccountID  uint   `gorm:"index;not null" json:"-"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
}

// PICUserInput is a PIC user as submitted by an operator. An empty Password
// keeps the stored hash of the PIC user with the same email.
type PICUserInput struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password,omitempty" form:"password" validate:"omitempty,password"`
}

// COAccountInput carries the editable CO account fields and its sub-lists.
type COAccountInput struct {
	Code         string
	Name         string
	Email        string
	Phone        string
	CountryCode  string
	ProvinceCode string
	CityCode     string
	BankAccounts []BankAccount
	Addresses    []Address
	Contacts     []Contact
	PICUsers     []PICUserInput
}

// COAccountRepository defines the data access interface for CO accounts.
type COAccountRepository interface {
	Create(ctx context.Context, co *COAccount) error
	GetByID(ctx context.Context, id uint) (*COAccount, error)
	List(ctx context.Context, req PageRequest) (*PageResult[COAccount], error)
	Update(ctx context.Context, co *COAccount) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

// COAccountService defines the business logic interface for CO accounts.
type COAccountService interface {
	CreateCOAccount(ctx context.Context, in COAccountInput) (*COAccount, error)
	GetCOAccount(ctx context.Context, id uint) (*COAccount, error)
	ListCOAccounts(ctx context.Context, req PageRequest) (*PageResult[COAccount], error)
	UpdateCOAccount(ctx context.Context, id uint, in COAccountInput) (*COAccount, error)
	DeleteCOAccount(ctx context.Context, id uint) error
	ActivateCOAccount(ctx context.Context, id uint) (*COAccount, error)
	DeactivateCOAccount(ctx context.Context, id uint) (*COAccount, error)
}
