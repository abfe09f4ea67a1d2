// Package option holds select-box choices together with the extra data some
// screens keep per choice.
package option

import "slices"

// Option is one choice of a select input.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// List is an ordered set of options with optional metadata per value.
type List[M any] struct {
	Options []Option
	meta    map[string]M
}

// Of builds a List from items, using label and value to derive each option and
// meta to derive the side data kept per value.
func Of[T any, M any](items []T, label func(T) string, value func(T) string, meta func(T) M) List[M] {
	l := List[M]{Options: make([]Option, 0, len(items)), meta: make(map[string]M, len(items))}
	for _, it := range items {
		v := value(it)
		l.Options = append(l.Options, Option{Label: label(it), Value: v})
		if meta != nil {
			l.meta[v] = meta(it)
		}
	}
	return l
}

// Plain builds a List without metadata.
func Plain[T any](items []T, label func(T) string, value func(T) string) List[struct{}] {
	return Of[T, struct{}](items, label, value, nil)
}

// Static builds options whose label equals the value.
func Static(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Label: v, Value: v}
	}
	return out
}

// Meta returns the metadata recorded for value.
func (l List[M]) Meta(value string) (M, bool) {
	m, ok := l.meta[value]
	return m, ok
}

// Label returns the label of value, or value itself when it is unknown.
func (l List[M]) Label(value string) string {
	if i := l.index(value); i >= 0 {
		return l.Options[i].Label
	}
	return value
}

// Has reports whether value is one of the options.
func (l List[M]) Has(value string) bool {
	return l.index(value) >= 0
}

func (l List[M]) index(value string) int {
	return slices.IndexFunc(l.Options, func(o Option) bool { return o.Value == value })
}
