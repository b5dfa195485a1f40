package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gin-shop/pkg/utils"
)

// Base binds a request context to every query.
type Base struct{ db *gorm.DB }

func NewBase(db *gorm.DB) Base { return Base{db: db} }

func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// first runs q into dst; a missing row yields (false, nil).
func first(q *gorm.DB, dst any) (bool, error) {
	err := q.First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func ensureID(id *string) {
	if *id == "" {
		*id = utils.NewID()
	}
}
