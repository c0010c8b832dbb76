package shared

import "strings"

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// Normalize fills zero paging values with defaults, caps the page size and
// lower-cases the sort direction. Unknown directions are cleared.
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	switch {
	case strings.EqualFold(f.OrderDir, "asc"):
		f.OrderDir = "asc"
	case strings.EqualFold(f.OrderDir, "desc"):
		f.OrderDir = "desc"
	default:
		f.OrderDir = "" // repository default
	}
	return f
}

// Offset returns the row offset of the current page
func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
