package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger forwards gorm's statement log to zerolog.
type GormLogger struct {
	log           zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger creates a gorm logger on top of log.
func NewGormLogger(log zerolog.Logger, slowThreshold time.Duration) *GormLogger {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &GormLogger{
		log:           log.With().Str("component", "gorm").Logger(),
		level:         gormlogger.Warn,
		slowThreshold: slowThreshold,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.event(ctx, l.log.Info()).Msgf(msg, args...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.event(ctx, l.log.Warn()).Msgf(msg, args...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.event(ctx, l.log.Error()).Msgf(msg, args...)
	}
}

// Trace logs failed and slow statements. Record-not-found is expected and skipped.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.event(ctx, l.log.Error()).
			Err(err).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("query failed")
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.event(ctx, l.log.Warn()).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Dur("threshold", l.slowThreshold).
			Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.event(ctx, l.log.Debug()).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("query")
	}
}

func (l *GormLogger) event(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e = e.Str("trace_id", sc.TraceID().String())
	}
	return e
}
