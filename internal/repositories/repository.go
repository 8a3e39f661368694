package repositories

import "errors"

var (
	// ErrNotFound is returned when no record matches the given identifier.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// ListOptions narrows and pages a List call. Fields are store-level names
// (e.g. "email", "namaproduk") and are expected to be whitelisted by the caller.
type ListOptions struct {
	Offset      int
	Limit       int
	SearchField string
	SearchValue string
	SortField   string
	SortDesc    bool
}
