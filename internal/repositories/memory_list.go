package repositories

import (
	"sort"
	"strings"
)

// pageInMemory filters, sorts and slices records held in insertion order.
// field resolves a store-level field name to the record's string value.
func pageInMemory[T any](records []T, opts ListOptions, field func(T, string) string) []T {
	out := make([]T, 0, len(records))
	needle := strings.ToLower(opts.SearchValue)
	for _, rec := range records {
		if opts.SearchField != "" && needle != "" &&
			!strings.Contains(strings.ToLower(field(rec, opts.SearchField)), needle) {
			continue
		}
		out = append(out, rec)
	}

	if opts.SortField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := field(out[i], opts.SortField), field(out[j], opts.SortField)
			if opts.SortDesc {
				return a > b
			}
			return a < b
		})
	}

	if opts.Offset >= len(out) {
		return []T{}
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out
}
