package upsert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pic struct {
	Name     string
	Email    string
	Password string
	Confirm  string
	Existing bool
}

func picSchema() *Schema[pic] {
	return NewSchema[pic](nil).
		Field("name", "required,max=100", func(p pic) any { return p.Name }).
		Field("email", "required,email", func(p pic) any { return p.Email }).
		FieldIf("password", "required,password", func(p pic) any { return p.Password }, func(p pic) bool { return !p.Existing }).
		Check("confirm", func(p pic) string {
			if p.Password != p.Confirm {
				return "Passwords do not match"
			}
			return ""
		})
}

func TestSchema_Valid(t *testing.T) {
	errs := picSchema().Validate(pic{Name: "Jane", Email: "jane@example.com", Password: "Secret123", Confirm: "Secret123"})
	assert.Nil(t, errs)
}

func TestSchema_FieldErrors(t *testing.T) {
	errs := picSchema().Validate(pic{Email: "nope", Password: "weak", Confirm: "other"})

	assert.Equal(t, FieldErrors{
		"name":     "This field is required",
		"email":    "Must be a valid email address",
		"password": "Must be 8-72 characters with upper, lower case letters and a digit",
		"confirm":  "Passwords do not match",
	}, errs)
}

func TestSchema_ConditionalRule(t *testing.T) {
	errs := picSchema().Validate(pic{Name: "Jane", Email: "jane@example.com", Existing: true})
	assert.Nil(t, errs)
}

func TestSchema_FirstErrorPerField(t *testing.T) {
	s := NewSchema[string](nil).
		Field("code", "required", func(s string) any { return s }).
		Field("code", "len=16", func(s string) any { return s })

	assert.Equal(t, FieldErrors{"code": "This field is required"}, s.Validate(""))
	assert.Equal(t, FieldErrors{"code": "Must be exactly 16 characters"}, s.Validate("123"))
}

func TestValidateStruct(t *testing.T) {
	type entry struct {
		AccountNumber string `form:"account_number" validate:"required,numeric,min=10,max=16"`
		FundType      string `form:"fund_type" validate:"required,oneof=MAIN SECONDARY"`
	}

	errs := ValidateStruct(nil, entry{AccountNumber: "12ab", FundType: "OTHER"})
	assert.Equal(t, FieldErrors{
		"account_number": "Must contain digits only",
		"fund_type":      "Must be one of: MAIN, SECONDARY",
	}, errs)
	assert.Nil(t, ValidateStruct(nil, entry{AccountNumber: "1234567890", FundType: "MAIN"}))
}

func TestFieldErrors_Error(t *testing.T) {
	assert.Equal(t, "a: x; b: y", FieldErrors{"b": "y", "a": "x"}.Error())
}
