package db

import (
	"context"
	"errors"
	"time"

	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// GormLogger implements GORM's logger.Interface on top of the app logger.
type GormLogger struct {
	log *logger.Logger
}

// NewGormLogger routes GORM output through log.
func NewGormLogger(log *logger.Logger) *GormLogger {
	return &GormLogger{log: log}
}

// LogMode implements the log.Interface method. Levels are decided by the
// app logger, so the mode is ignored.
func (l *GormLogger) LogMode(gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.log.Info(ctx, msg, logger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.log.Warn(ctx, msg, logger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.log.Error(ctx, msg, logger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &logger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	data := map[string]interface{}{
		constant.DataElapsed: elapsed.String(),
		constant.DataRows:    rows,
		constant.DataSQL:     sql,
	}

	switch {
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Debug(ctx, "SQL query", logger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Data:            data,
		})
	case isUniqueViolation(err):
		l.log.Warn(ctx, "SQL unique violation", logger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBDuplicate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: data,
		})
	default:
		l.log.Error(ctx, "SQL error", logger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: data,
		})
	}
}
