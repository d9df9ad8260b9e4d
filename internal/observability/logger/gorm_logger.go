package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures the store's query logger.
type GormLoggerConfig struct {
	Level                gormlogger.LogLevel
	SlowThreshold        time.Duration
	IgnoreRecordNotFound bool
}

// GormLoggerConfigFor maps the application log level onto gorm's levels.
// Statements are only logged at debug. A missing key is a normal answer of
// the key-value store, never an error.
func GormLoggerConfigFor(level string) GormLoggerConfig {
	cfg := GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        200 * time.Millisecond,
		IgnoreRecordNotFound: true,
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		cfg.Level = gormlogger.Info
	case "error":
		cfg.Level = gormlogger.Error
	case "silent":
		cfg.Level = gormlogger.Silent
	}
	return cfg
}

// GormLogger writes gorm's messages and statements through zap, tagged with
// the request and trace of the calling context.
type GormLogger struct {
	base   *zap.Logger
	config GormLoggerConfig
}

// NewGormLogger builds a GormLogger over base, or over the global logger
// when base is nil.
func NewGormLogger(base *zap.Logger, cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{base: base, config: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.config.Level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

// Trace logs failed and slow statements, and every statement at debug.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	level, ok := l.statementLevel(time.Since(begin), err)
	if !ok {
		return
	}

	sql, rows := fc()
	operation, table := describeSQL(sql)
	fields := []zap.Field{
		zap.String("component", "store"),
		zap.String("operation", operation),
		zap.Int64("duration_ms", time.Since(begin).Milliseconds()),
	}
	if table != "" {
		fields = append(fields, zap.String("table", table))
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if level == zapcore.DebugLevel {
		fields = append(fields, zap.String("sql", strings.TrimSpace(sql)))
	}

	if ce := l.logger(ctx).Check(level, "store.query"); ce != nil {
		ce.Write(fields...)
	}
}

// ParamsFilter drops bound values. They hold client names and amounts.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) statementLevel(elapsed time.Duration, err error) (zapcore.Level, bool) {
	cfg := l.config
	switch {
	case cfg.Level <= gormlogger.Silent:
		return zapcore.DebugLevel, false
	case err != nil && cfg.Level >= gormlogger.Error:
		if cfg.IgnoreRecordNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return zapcore.DebugLevel, cfg.Level >= gormlogger.Info
		}
		return zapcore.ErrorLevel, true
	case cfg.SlowThreshold > 0 && elapsed > cfg.SlowThreshold && cfg.Level >= gormlogger.Warn:
		return zapcore.WarnLevel, true
	case cfg.Level >= gormlogger.Info:
		return zapcore.DebugLevel, true
	}
	return zapcore.DebugLevel, false
}

func (l *GormLogger) message(ctx context.Context, threshold gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.config.Level < threshold {
		return
	}
	if len(data) > 0 {
		msg = fmt.Sprintf(msg, data...)
	}
	if ce := l.logger(ctx).Check(level, msg); ce != nil {
		ce.Write(zap.String("component", "store"))
	}
}

func (l *GormLogger) logger(ctx context.Context) *zap.Logger {
	return WithContext(ctx, l.base)
}

// describeSQL returns the statement kind and the first table it touches.
func describeSQL(sql string) (operation, table string) {
	tokens := strings.Fields(sql)
	operation = "UNKNOWN"
	for i, token := range tokens {
		word := strings.ToUpper(strings.Trim(token, "();"))
		switch word {
		case "SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP":
			if operation == "UNKNOWN" {
				operation = word
			}
			if word == "UPDATE" && table == "" {
				table = identAfter(tokens, i)
			}
		case "FROM", "INTO", "TABLE":
			if table == "" {
				table = identAfter(tokens, i)
			}
		}
		if operation != "UNKNOWN" && table != "" {
			break
		}
	}
	return operation, table
}

func identAfter(tokens []string, i int) string {
	for _, token := range tokens[i+1:] {
		switch strings.ToUpper(token) {
		case "IF", "NOT", "EXISTS":
			continue
		}
		return strings.Trim(token, "`\"'[]();,")
	}
	return ""
}

var _ gormlogger.Interface = (*GormLogger)(nil)
