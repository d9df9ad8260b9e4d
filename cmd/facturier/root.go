package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/smallbiznis/facturier/internal/backup"
	"github.com/smallbiznis/facturier/internal/catalog"
	"github.com/smallbiznis/facturier/internal/clock"
	"github.com/smallbiznis/facturier/internal/config"
	docrepo "github.com/smallbiznis/facturier/internal/document/repository"
	"github.com/smallbiznis/facturier/internal/logger"
	"github.com/smallbiznis/facturier/internal/migration"
	"github.com/smallbiznis/facturier/internal/observability/metrics"
	"github.com/smallbiznis/facturier/internal/observability/tracing"
	"github.com/smallbiznis/facturier/internal/profile"
	"github.com/smallbiznis/facturier/internal/providers"
	"github.com/smallbiznis/facturier/internal/store"
	"github.com/smallbiznis/facturier/pkg/db"
	"github.com/smallbiznis/facturier/pkg/ids"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "facturier",
	Short: "Invoices, quotes and receipts for a small business",
	Long: `facturier keeps a history of invoices, quotes and receipts, a client
and product catalog and the company profile in one database.

Run "facturier serve" for the HTTP API behind the browser editor, or use the
backup, pdf and dashboard commands directly against the database.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// coreModules is the infrastructure every command needs: configuration,
// logging and tracing, the migrated database and the key-value store.
func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		logger.Module,
		metrics.Module,
		tracing.Module,
		ids.Module,
		clock.Module,
		db.Module,
		migration.Module,
		store.Module,
	)
}

// offlineModules adds the services the one-shot commands use, without the
// HTTP server or the editor session.
func offlineModules() fx.Option {
	return fx.Options(
		coreModules(),
		docrepo.Module,
		catalog.Module,
		profile.Module,
		backup.Module,
		providers.Module,
		fx.NopLogger,
	)
}

// runOffline starts a short-lived app, hands the populated targets to fn and
// stops the app again.
func runOffline(ctx context.Context, fn func(context.Context) error, targets ...any) error {
	app := fx.New(offlineModules(), fx.Populate(targets...))
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	runErr := fn(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
