package db

import (
	"context"
	"fmt"
	"time"

	glebarez "github.com/glebarez/sqlite"
	"github.com/smallbiznis/facturier/internal/config"
	obslogger "github.com/smallbiznis/facturier/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New opens the configured database, traces its statements and applies the
// pool settings.
func New(cfg config.Config, log *zap.Logger, tp *sdktrace.TracerProvider) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: obslogger.NewGormLogger(log, obslogger.GormLoggerConfigFor(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBType, err)
	}
	var provider trace.TracerProvider
	if tp != nil {
		provider = tp
	}
	if err := Instrument(conn, cfg.DBName, provider); err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBType == TypeSQLite || cfg.DBType == "" {
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Second)

	if log != nil {
		log.Info("database connected", zap.String("type", conn.Dialector.Name()))
	}
	return conn, nil
}

// Instrument adds a span per statement. Bound values stay out of the span.
func Instrument(conn *gorm.DB, name string, tp trace.TracerProvider) error {
	opts := []otelgorm.Option{
		otelgorm.WithDBName(name),
		otelgorm.WithoutQueryVariables(),
		otelgorm.WithoutMetrics(),
	}
	if tp != nil {
		opts = append(opts, otelgorm.WithTracerProvider(tp))
	}
	if err := conn.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("instrument database: %w", err)
	}
	return nil
}

// OpenMemory opens a private in-memory sqlite database. It backs tests and
// the CLI's dry runs.
func OpenMemory() (*gorm.DB, error) {
	conn, err := gorm.Open(glebarez.Open(":memory:"), &gorm.Config{
		Logger: obslogger.NewGormLogger(nil, obslogger.GormLoggerConfigFor("silent")),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// every new connection would get its own empty database
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}

func registerHooks(lc fx.Lifecycle, conn *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}

var Module = fx.Module("db",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)
