package services

import (
	"fmt"
	"strings"

	"pasar/internal/repositories"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 3
	MaxPageSize       = 100
)

// ListQuery is the paging request accepted by the list operations.
// Search has the form "field:value", Sort the form "field[:asc|desc]".
type ListQuery struct {
	PageNumber int
	PageSize   int
	Search     string
	Sort       string
}

// Normalize fills defaults and clamps the page size.
func (q ListQuery) Normalize() ListQuery {
	if q.PageNumber < 1 {
		q.PageNumber = DefaultPageNumber
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Offset is the number of records skipped before this page.
func (q ListQuery) Offset() int {
	q = q.Normalize()
	return (q.PageNumber - 1) * q.PageSize
}

func (q ListQuery) listOptions(searchable, sortable map[string]bool) (repositories.ListOptions, error) {
	q = q.Normalize()
	opts := repositories.ListOptions{
		Offset: q.Offset(),
		Limit:  q.PageSize,
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		field, value, ok := strings.Cut(search, ":")
		field = strings.ToLower(strings.TrimSpace(field))
		if !ok || !searchable[field] {
			return opts, fmt.Errorf("%w: unsupported search %q", ErrInvalidQuery, q.Search)
		}
		opts.SearchField, opts.SearchValue = field, strings.TrimSpace(value)
	}

	if sort := strings.TrimSpace(q.Sort); sort != "" {
		field, direction, _ := strings.Cut(sort, ":")
		field = strings.ToLower(strings.TrimSpace(field))
		if !sortable[field] {
			return opts, fmt.Errorf("%w: unsupported sort field %q", ErrInvalidQuery, field)
		}
		switch strings.ToLower(strings.TrimSpace(direction)) {
		case "", "asc":
		case "desc":
			opts.SortDesc = true
		default:
			return opts, fmt.Errorf("%w: unsupported sort direction %q", ErrInvalidQuery, direction)
		}
		opts.SortField = field
	}
	return opts, nil
}
