package listing

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Kind tells how a filter value is encoded into the request payload.
type Kind int

const (
	// KindText is a free-text "contains" match, encoded as "<field>__like".
	KindText Kind = iota
	// KindExact is a single-select exact match, encoded as "<field>".
	KindExact
	// KindDateRange is an inclusive date range, encoded as "<field>__gte" / "<field>__lte".
	KindDateRange
	// KindOptions is a multi-select list, encoded as "<field>__in".
	KindOptions
)

const dateLayout = "2006-01-02"

// FilterValue is the current value of one filter field.
type FilterValue struct {
	Kind    Kind
	Text    string
	From    time.Time
	To      time.Time
	Options []string
}

// Text returns a free-text filter value.
func Text(s string) FilterValue { return FilterValue{Kind: KindText, Text: s} }

// Exact returns an exact-match filter value.
func Exact(s string) FilterValue { return FilterValue{Kind: KindExact, Text: s} }

// Between returns a date range filter value. A zero bound leaves that side open.
func Between(from, to time.Time) FilterValue {
	return FilterValue{Kind: KindDateRange, From: from, To: to}
}

// OneOf returns a multi-select filter value.
func OneOf(options ...string) FilterValue {
	return FilterValue{Kind: KindOptions, Options: slices.Clone(options)}
}

// IsZero reports whether the value filters nothing.
func (v FilterValue) IsZero() bool {
	switch v.Kind {
	case KindDateRange:
		return v.From.IsZero() && v.To.IsZero()
	case KindOptions:
		return len(v.Options) == 0
	default:
		return strings.TrimSpace(v.Text) == ""
	}
}

// Equal reports whether v and o hold the same value.
func (v FilterValue) Equal(o FilterValue) bool {
	return v.Kind == o.Kind &&
		v.Text == o.Text &&
		v.From.Equal(o.From) &&
		v.To.Equal(o.To) &&
		slices.Equal(v.Options, o.Options)
}

func (v FilterValue) clone() FilterValue {
	v.Options = slices.Clone(v.Options)
	return v
}

// encode writes the payload parameters of field into dst.
func (v FilterValue) encode(field string, dst map[string]string) {
	if v.IsZero() {
		return
	}
	switch v.Kind {
	case KindText:
		dst[field+"__like"] = strings.TrimSpace(v.Text)
	case KindExact:
		dst[field] = strings.TrimSpace(v.Text)
	case KindDateRange:
		if !v.From.IsZero() {
			dst[field+"__gte"] = v.From.Format(dateLayout)
		}
		if !v.To.IsZero() {
			dst[field+"__lte"] = v.To.Format(dateLayout) + " 23:59:59"
		}
	case KindOptions:
		dst[field+"__in"] = strings.Join(v.Options, ",")
	}
}

// FilterForm maps filter field names to their current values.
type FilterForm map[string]FilterValue

// Clone returns a deep copy of f.
func (f FilterForm) Clone() FilterForm {
	out := make(FilterForm, len(f))
	for k, v := range f {
		out[k] = v.clone()
	}
	return out
}

// Equal reports whether f and o hold the same values. Zero values and missing
// fields are considered equal.
func (f FilterForm) Equal(o FilterForm) bool {
	keys := make(map[string]struct{}, len(f)+len(o))
	for k := range f {
		keys[k] = struct{}{}
	}
	for k := range o {
		keys[k] = struct{}{}
	}
	for k := range keys {
		a, b := f[k], o[k]
		if a.IsZero() && b.IsZero() {
			continue
		}
		if !a.Equal(b) {
			return false
		}
	}
	return true
}

// Params encodes the form into flat payload parameters.
func (f FilterForm) Params() map[string]string {
	out := make(map[string]string, len(f))
	for _, field := range slices.Sorted(maps.Keys(f)) {
		f[field].encode(field, out)
	}
	return out
}
