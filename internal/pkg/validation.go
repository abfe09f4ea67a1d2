package pkg

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagPassword is the custom validator tag for operator and PIC passwords:
// 8-72 bytes with at least one lowercase letter, one uppercase letter and one digit.
const TagPassword = "password"

// NewValidator returns a validator with the console's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(formFieldName)
	_ = v.RegisterValidation(TagPassword, func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
	return v
}

// RegisterBindingValidators registers the custom tags on gin's binding
// validator so request DTOs can use them in `binding` tags.
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation(TagPassword, func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
}

// formFieldName reports struct fields by their form name, then their json
// name, so field errors line up with the inputs that produced them.
func formFieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// ValidPassword reports whether pw satisfies the password composition rule.
func ValidPassword(pw string) bool {
	if len(pw) < 8 || len(pw) > 72 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// FieldMessage renders a validator.FieldError as a short sentence suitable
// for display beneath a form field.
func FieldMessage(fe validator.FieldError) string {
	return TagMessage(fe.Tag(), fe.Param())
}

// TagMessage renders a validation tag and its parameter as a short sentence.
func TagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", param)
	case "max":
		return fmt.Sprintf("Must be at most %s characters", param)
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", param)
	case "numeric":
		return "Must contain digits only"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "hexcolor":
		return "Must be a hex color such as #1A2B3C"
	case "datetime":
		return "Must be a date formatted as " + param
	case "eqfield":
		return fmt.Sprintf("Must match %s", strings.ToLower(param))
	case TagPassword:
		return "Must be 8-72 characters with upper, lower case letters and a digit"
	default:
		if param != "" {
			return tag + "=" + param
		}
		return tag
	}
}

// ValidPhone reports whether s is a phone number of 8-15 digits.
func ValidPhone(s string) bool {
	if len(s) < 8 || len(s) > 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
