package database

import (
	"gorm.io/gorm"
)

// Paginate applies an optional list window to a GORM query. Zero values
// leave the query unbounded.
func Paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			db = db.Offset(offset)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
