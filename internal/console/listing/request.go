package listing

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Request is the list payload derived from pagination, sort and the debounced
// filters. Page is 0-based.
type Request struct {
	Page    int
	Limit   int
	Sort    string
	Filters map[string]string
}

// Key returns a canonical encoding of r. Equal payloads have equal keys.
func (r Request) Key() string {
	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(r.Page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(r.Limit))
	if r.Sort != "" {
		b.WriteString("&sort=")
		b.WriteString(r.Sort)
	}
	for _, k := range slices.Sorted(maps.Keys(r.Filters)) {
		b.WriteString("&")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(r.Filters[k])
	}
	return b.String()
}

// Page is one page of list rows with the total element count.
type Page[T any] struct {
	Items         []T
	TotalElements int64
}
