package upsert

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/coconsole/internal/pkg"
)

// FieldErrors maps a form field to the message shown beneath it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	var b strings.Builder
	for i, k := range slices.Sorted(maps.Keys(e)) {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e[k])
	}
	return b.String()
}

// Has reports whether field has an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// add records msg for field unless the field already has an error.
func (e FieldErrors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

type fieldRule[D any] struct {
	field string
	tag   string
	get   func(D) any
	when  func(D) bool
}

type crossRule[D any] struct {
	field string
	check func(D) string
}

// Schema validates a form draft. Field rules use validator tags; cross rules
// compare fields of the draft being submitted.
type Schema[D any] struct {
	v     *validator.Validate
	rules []fieldRule[D]
	cross []crossRule[D]
}

// NewSchema returns an empty schema. A nil v uses pkg.NewValidator.
func NewSchema[D any](v *validator.Validate) *Schema[D] {
	if v == nil {
		v = pkg.NewValidator()
	}
	return &Schema[D]{v: v}
}

// Field adds a tag rule for field.
func (s *Schema[D]) Field(field, tag string, get func(D) any) *Schema[D] {
	s.rules = append(s.rules, fieldRule[D]{field: field, tag: tag, get: get})
	return s
}

// FieldIf adds a tag rule that only applies when when(d) is true.
func (s *Schema[D]) FieldIf(field, tag string, get func(D) any, when func(D) bool) *Schema[D] {
	s.rules = append(s.rules, fieldRule[D]{field: field, tag: tag, get: get, when: when})
	return s
}

// Check adds a cross-field rule. check returns the message to show on field,
// or "" when the draft is fine.
func (s *Schema[D]) Check(field string, check func(D) string) *Schema[D] {
	s.cross = append(s.cross, crossRule[D]{field: field, check: check})
	return s
}

// Validate returns the errors of d, or nil when it is valid. Only the first
// failing rule of each field is reported.
func (s *Schema[D]) Validate(d D) FieldErrors {
	errs := FieldErrors{}
	for _, r := range s.rules {
		if r.when != nil && !r.when(d) {
			continue
		}
		err := s.v.Var(r.get(d), r.tag)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			errs.add(r.field, pkg.FieldMessage(verrs[0]))
			continue
		}
		errs.add(r.field, err.Error())
	}
	for _, r := range s.cross {
		if errs.Has(r.field) {
			continue
		}
		if msg := r.check(d); msg != "" {
			errs.add(r.field, msg)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateStruct validates a tagged struct, such as a field-array entry, and
// returns its errors keyed by field name.
func ValidateStruct(v *validator.Validate, s any) FieldErrors {
	if v == nil {
		v = pkg.NewValidator()
	}
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	errs := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.add("_", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.add(fe.Field(), pkg.FieldMessage(fe))
	}
	return errs
}
