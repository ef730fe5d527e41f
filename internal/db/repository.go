package db

import (
	"gorm.io/gorm"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a database transaction. The callback receives
// a Repository bound to the transaction handle.
func (r *Repository) Transaction(fn func(tx *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// applyPage applies offset/limit pagination to a query. Page is 1-based;
// non-positive values fall back to the first page and the given default limit.
func applyPage(q *gorm.DB, page, limit, defaultLimit int) *gorm.DB {
	if limit <= 0 {
		limit = defaultLimit
	}
	if page <= 0 {
		page = 1
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}
