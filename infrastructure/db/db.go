package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// sqliteParams lets concurrent writers wait on each other instead of
// failing with SQLITE_BUSY.
const sqliteParams = "_busy_timeout=5000&_journal_mode=WAL"

var schema = map[string][]string{
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS url(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			alias TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS idx_alias ON url(alias)`,
	},
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS url(
			id BIGSERIAL PRIMARY KEY,
			alias TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS idx_alias ON url(alias)`,
	},
}

// DB is an open storage pool with the url schema in place.
type DB struct {
	gdb     *gorm.DB
	dialect string
	log     *logger.Logger
}

// Dialect picks the storage engine for a storage location: postgres:// and
// postgresql:// URLs select PostgreSQL, anything else is a SQLite file path.
func Dialect(storagePath string) string {
	if strings.HasPrefix(storagePath, "postgres://") || strings.HasPrefix(storagePath, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteParams
	}
	return path + "?" + sqliteParams
}

// Open connects to storagePath, sizes the pool and creates the url table
// and alias index if they do not exist.
func Open(ctx context.Context, storagePath string, maxOpenConns int, log *logger.Logger) (*DB, error) {
	dialect := Dialect(storagePath)

	log.Debug(ctx, "Opening database", logger.LoggerInfo{
		ContextFunction: constant.CtxOpen,
		Data: map[string]interface{}{
			constant.DataDialect:      dialect,
			constant.DataMaxOpenConns: maxOpenConns,
		},
	})

	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(storagePath)
	default:
		dialector = sqlite.Open(sqliteDSN(storagePath))
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewGormLogger(log),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		logOpenError(ctx, log, constant.ErrCodeDBOpen, "Failed to open database", err, dialect)
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logOpenError(ctx, log, constant.ErrCodeDBPool, "Failed to get connection pool", err, dialect)
		return nil, fmt.Errorf("get connection pool: %w", err)
	}
	if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxOpenConns)
	}

	for _, stmt := range schema[dialect] {
		if err := gdb.WithContext(ctx).Exec(stmt).Error; err != nil {
			logOpenError(ctx, log, constant.ErrCodeDBSchema, "Failed to create schema", err, dialect)
			_ = sqlDB.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	log.Info(ctx, "Database initialized successfully", logger.LoggerInfo{
		ContextFunction: constant.CtxOpen,
		Data: map[string]interface{}{
			constant.DataDialect: dialect,
		},
	})

	return &DB{gdb: gdb, dialect: dialect, log: log}, nil
}

func logOpenError(ctx context.Context, log *logger.Logger, code, msg string, err error, dialect string) {
	log.Error(ctx, msg, logger.LoggerInfo{
		ContextFunction: constant.CtxOpen,
		Error: &logger.CustomError{
			Code:    code,
			Message: err.Error(),
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataDialect: dialect,
		},
	})
}

// DialectName reports which engine the pool talks to.
func (d *DB) DialectName() string {
	return d.dialect
}

// Ping checks that storage is reachable.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (d *DB) Close() error {
	ctx := context.Background()
	sqlDB, err := d.gdb.DB()
	if err != nil {
		d.log.Error(ctx, "Failed to get database connection", logger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	d.log.Info(ctx, "Closing database connection", logger.LoggerInfo{
		ContextFunction: constant.CtxClose,
	})

	return sqlDB.Close()
}
