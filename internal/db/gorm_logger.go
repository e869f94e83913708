package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"riverbend/portal/internal/logging"
)

const slowQueryThreshold = 500 * time.Millisecond

// zapLogger sends GORM output through the request-scoped zap logger.
// Misses and unique violations are handled by callers and not logged.
type zapLogger struct {
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newZapLogger(level logger.LogLevel) logger.Interface {
	return &zapLogger{level: level, slowThreshold: slowQueryThreshold}
}

func (l *zapLogger) LogMode(level logger.LogLevel) logger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *zapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		logging.FromContext(ctx).Info(fmt.Sprintf(msg, data...))
	}
}

func (l *zapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		logging.FromContext(ctx).Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *zapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		logging.FromContext(ctx).Error(fmt.Sprintf(msg, data...))
	}
}

func (l *zapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !expectedError(err):
		sql, rows := fc()
		logging.FromContext(ctx).Errorw("Database query failed",
			"error", err.Error(),
			"sql", sql,
			"rows", rows,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		logging.FromContext(ctx).Warnw("Slow database query",
			"sql", sql,
			"rows", rows,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	case l.level >= logger.Info:
		sql, rows := fc()
		logging.FromContext(ctx).Infow("Database query",
			"sql", sql,
			"rows", rows,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	}
}

func expectedError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey)
}
