package coaccount

import (
	"github.com/simp-lee/coconsole/internal/domain"
)

// COAccountRequest is the write payload of a CO account, shared by the REST
// API and the console form. Sub-lists are edited entry by entry in the form
// and are not bound from the main form fields.
type COAccountRequest struct {
	Code         string                `json:"code" form:"code" binding:"required,min=3,max=32"`
	Name         string                `json:"name" form:"name" binding:"required,min=2,max=150"`
	Email        string                `json:"email" form:"email" binding:"required,email"`
	Phone        string                `json:"phone" form:"phone" binding:"omitempty,numeric,min=8,max=15"`
	CountryCode  string                `json:"country_code" form:"country_code" binding:"required"`
	ProvinceCode string                `json:"province_code" form:"province_code" binding:"required"`
	CityCode     string                `json:"city_code" form:"city_code" binding:"required"`
	BankAccounts []domain.BankAccount  `json:"bank_accounts" form:"-"`
	Addresses    []domain.Address      `json:"addresses" form:"-"`
	Contacts     []domain.Contact      `json:"contacts" form:"-"`
	PICUsers     []domain.PICUserInput `json:"pic_users" form:"-"`
}

// Input converts the request into service input.
func (r COAccountRequest) Input() domain.COAccountInput {
	return domain.COAccountInput{
		Code:         r.Code,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		CountryCode:  r.CountryCode,
		ProvinceCode: r.ProvinceCode,
		CityCode:     r.CityCode,
		BankAccounts: r.BankAccounts,
		Addresses:    r.Addresses,
		Contacts:     r.Contacts,
		PICUsers:     r.PICUsers,
	}
}

// DraftOf returns the form draft of an existing CO account. PIC passwords
// are left empty so saving keeps them.
func DraftOf(co domain.COAccount) COAccountRequest {
	r := COAccountRequest{
		Code:         co.Code,
		Name:         co.Name,
		Email:        co.Email,
		Phone:        co.Phone,
		CountryCode:  co.CountryCode,
		ProvinceCode: co.ProvinceCode,
		CityCode:     co.CityCode,
		BankAccounts: co.BankAccounts,
		Addresses:    co.Addresses,
		Contacts:     co.Contacts,
	}
	for _, p := range co.PICUsers {
		r.PICUsers = append(r.PICUsers, domain.PICUserInput{Name: p.Name, Email: p.Email})
	}
	return r
}
