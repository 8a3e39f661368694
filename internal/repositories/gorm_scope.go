package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// listScope applies ListOptions to a GORM query. Without a sort field rows come
// back in insertion order so consecutive pages stay disjoint.
func listScope(opts ListOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if opts.SearchField != "" && opts.SearchValue != "" {
			db = db.Where("LOWER("+opts.SearchField+") LIKE ?", "%"+strings.ToLower(opts.SearchValue)+"%")
		}
		if opts.SortField != "" {
			direction := " ASC"
			if opts.SortDesc {
				direction = " DESC"
			}
			db = db.Order(opts.SortField + direction)
		}
		db = db.Order("created_at ASC").Order("id ASC")
		if opts.Offset > 0 {
			db = db.Offset(opts.Offset)
		}
		if opts.Limit > 0 {
			db = db.Limit(opts.Limit)
		}
		return db
	}
}

// translateGORMError maps driver errors onto the package sentinels. It relies on
// gorm.Config.TranslateError being enabled.
func translateGORMError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
