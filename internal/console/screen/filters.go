package screen

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/console/option"
)

// FilterField declares one input of a list's filter bar.
type FilterField struct {
	Name    string
	Label   string
	Kind    listing.Kind
	Options []option.Option
}

// Input names the control rendering the field: "text", "select",
// "multiselect" or "daterange".
func (f FilterField) Input() string {
	switch f.Kind {
	case listing.KindExact:
		return "select"
	case listing.KindOptions:
		return "multiselect"
	case listing.KindDateRange:
		return "daterange"
	default:
		return "text"
	}
}

// Text declares a free-text filter.
func Text(name, label string) FilterField {
	return FilterField{Name: name, Label: label, Kind: listing.KindText}
}

// Select declares a single-select filter.
func Select(name, label string, opts []option.Option) FilterField {
	return FilterField{Name: name, Label: label, Kind: listing.KindExact, Options: opts}
}

// MultiSelect declares a multi-select filter.
func MultiSelect(name, label string, opts []option.Option) FilterField {
	return FilterField{Name: name, Label: label, Kind: listing.KindOptions, Options: opts}
}

// DateRange declares a date range filter read from "<name>_from" and "<name>_to".
func DateRange(name, label string) FilterField {
	return FilterField{Name: name, Label: label, Kind: listing.KindDateRange}
}

func initialFilters(fields []FilterField) listing.FilterForm {
	f := make(listing.FilterForm, len(fields))
	for _, field := range fields {
		f[field.Name] = listing.FilterValue{Kind: field.Kind}
	}
	return f
}

// parseFilters reads the filter bar from the query string.
func parseFilters(c *gin.Context, fields []FilterField) listing.FilterForm {
	f := make(listing.FilterForm, len(fields))
	for _, field := range fields {
		switch field.Kind {
		case listing.KindText:
			f[field.Name] = listing.Text(c.Query(field.Name))
		case listing.KindExact:
			f[field.Name] = listing.Exact(c.Query(field.Name))
		case listing.KindDateRange:
			f[field.Name] = listing.Between(parseDate(c.Query(field.Name+"_from")), parseDate(c.Query(field.Name+"_to")))
		case listing.KindOptions:
			var values []string
			for _, v := range c.QueryArray(field.Name) {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
			f[field.Name] = listing.OneOf(values...)
		}
	}
	return f
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
