// Package orm holds small GORM helpers shared by the repositories.
package orm

import "gorm.io/gorm"

// Pagination describes the window a list query returned.
type Pagination struct {
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Total  int64 `json:"total"`
}

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Clamp normalises offset/limit into a usable window.
func Clamp(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return offset, limit
}

// Paginate is a GORM scope applying an offset/limit window:
//
//	db.Scopes(orm.Paginate(offset, limit)).Find(&products)
func Paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	offset, limit = Clamp(offset, limit)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}
