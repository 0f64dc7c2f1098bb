package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/domain/shortener"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
	"gorm.io/gorm"
)

// urlRecord maps a row of the url table.
type urlRecord struct {
	ID    int64  `gorm:"column:id;primaryKey"`
	Alias string `gorm:"column:alias"`
	URL   string `gorm:"column:url"`
}

func (urlRecord) TableName() string { return "url" }

// Repository implements shortener.Repository on top of DB.
type Repository struct {
	db *DB
}

var _ shortener.Repository = (*Repository)(nil)

// NewRepository creates a repository over an open DB.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a new mapping and returns its id. The unique constraint on
// alias decides collisions; there is no prior existence check.
func (r *Repository) Save(ctx context.Context, url, alias string) (int64, error) {
	rec := urlRecord{Alias: alias, URL: url}

	if err := r.db.gdb.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			r.db.log.Debug(ctx, "Alias already taken", logger.LoggerInfo{
				ContextFunction: constant.CtxSave,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeDBDuplicate,
					Message: err.Error(),
					Type:    constant.ErrTypeDB,
				},
				Data: map[string]interface{}{
					constant.DataAlias: alias,
				},
			})
			return 0, shortener.ErrAliasExists
		}

		r.db.log.Error(ctx, "Failed to insert URL", logger.LoggerInfo{
			ContextFunction: constant.CtxSave,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataAlias: alias,
				constant.DataURL:   url,
			},
		})
		return 0, fmt.Errorf("%w: %v", shortener.ErrStorage, err)
	}

	r.db.log.Debug(ctx, "URL stored", logger.LoggerInfo{
		ContextFunction: constant.CtxSave,
		Data: map[string]interface{}{
			constant.DataID:    rec.ID,
			constant.DataAlias: alias,
		},
	})

	return rec.ID, nil
}

// Get returns the URL stored under alias.
func (r *Repository) Get(ctx context.Context, alias string) (string, error) {
	var rec urlRecord

	err := r.db.gdb.WithContext(ctx).Where("alias = ?", alias).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", shortener.ErrNotFound
	}
	if err != nil {
		r.db.log.Error(ctx, "Database error while looking up alias", logger.LoggerInfo{
			ContextFunction: constant.CtxGet,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataAlias: alias,
			},
		})
		return "", fmt.Errorf("%w: %v", shortener.ErrStorage, err)
	}

	return rec.URL, nil
}

// Delete removes the mapping for alias.
func (r *Repository) Delete(ctx context.Context, alias string) error {
	result := r.db.gdb.WithContext(ctx).Where("alias = ?", alias).Delete(&urlRecord{})
	if result.Error != nil {
		r.db.log.Error(ctx, "Failed to delete alias", logger.LoggerInfo{
			ContextFunction: constant.CtxRemove,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBDelete,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataAlias: alias,
			},
		})
		return fmt.Errorf("%w: %v", shortener.ErrStorage, result.Error)
	}

	if result.RowsAffected == 0 {
		return shortener.ErrNotFound
	}

	r.db.log.Debug(ctx, "Alias removed", logger.LoggerInfo{
		ContextFunction: constant.CtxRemove,
		Data: map[string]interface{}{
			constant.DataAlias:        alias,
			constant.DataRowsAffected: result.RowsAffected,
		},
	})

	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
