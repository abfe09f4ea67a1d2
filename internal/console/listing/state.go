package listing

// Pagination is the pagination state of a list.
// CurrentPage is 0-based; once TotalPages > 0, CurrentPage < TotalPages.
type Pagination struct {
	CurrentPage   int
	Limit         int
	TotalPages    int
	TotalElements int64
}

// withTotal records a successful response total without moving CurrentPage.
func (p Pagination) withTotal(total int64) Pagination {
	p.TotalElements = total
	p.TotalPages = 0
	if p.Limit > 0 {
		p.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return p
}

// reset collapses the state to an empty list after a failed query.
func (p Pagination) reset() Pagination {
	p.TotalPages = 0
	p.CurrentPage = 0
	p.TotalElements = 0
	return p
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.CurrentPage > 0 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.CurrentPage+1 < p.TotalPages }

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Sort is the sort state of a list. An empty By sends no sort parameter.
type Sort struct {
	By        string
	Direction Direction
}

// Toggle selects column and flips the direction. The flip happens whether or
// not column differs from the current one.
func (s Sort) Toggle(column string) Sort {
	return Sort{By: column, Direction: s.Direction.Flip()}
}

// Param encodes the sort state as "<field>:<direction>".
func (s Sort) Param() string {
	if s.By == "" {
		return ""
	}
	dir := s.Direction
	if dir != Desc {
		dir = Asc
	}
	return s.By + ":" + string(dir)
}

// Status is the lifecycle state of the latest list request.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}
