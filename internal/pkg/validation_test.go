package pkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidPassword(t *testing.T) {
	tests := []struct {
		pw   string
		want bool
	}{
		{"Secret123", true},
		{"secret123", false},
		{"SECRET123", false},
		{"SecretPwd", false},
		{"Sh0rt", false},
		{string(make([]byte, 73)), false},
	}
	for _, tt := range tests {
		if got := ValidPassword(tt.pw); got != tt.want {
			t.Errorf("ValidPassword(%q) = %v; want %v", tt.pw, got, tt.want)
		}
	}
}

func TestNewValidator_PasswordTag(t *testing.T) {
	v := NewValidator()
	if err := v.Var("Secret123", TagPassword); err != nil {
		t.Errorf("expected valid password, got %v", err)
	}
	if err := v.Var("weak", TagPassword); err == nil {
		t.Error("expected weak password to fail")
	}
}

func TestTagMessage(t *testing.T) {
	tests := []struct {
		tag, param, want string
	}{
		{"required", "", "This field is required"},
		{"len", "16", "Must be exactly 16 characters"},
		{"oneof", "MAIN SECONDARY", "Must be one of: MAIN, SECONDARY"},
		{"eqfield", "Password", "Must match password"},
		{"unknown", "x", "unknown=x"},
	}
	for _, tt := range tests {
		if got := TagMessage(tt.tag, tt.param); got != tt.want {
			t.Errorf("TagMessage(%q, %q) = %q; want %q", tt.tag, tt.param, got, tt.want)
		}
	}
}

func TestNewValidator_FieldNamesFollowFormTags(t *testing.T) {
	type entry struct {
		AccountNumber string `form:"account_number" validate:"required"`
		Holder        string `json:"holder" validate:"required"`
		Bare          string `validate:"required"`
	}

	err := NewValidator().Struct(entry{})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	var got []string
	for _, fe := range verrs {
		got = append(got, fe.Field())
	}
	want := []string{"account_number", "holder", "Bare"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("field names = %v; want %v", got, want)
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"08123456", true},
		{"628123456789012", true},
		{"0812345", false},
		{"6281234567890123", false},
		{"0812-3456", false},
		{"+62812345678", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}
