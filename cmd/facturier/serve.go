package main

import (
	"github.com/smallbiznis/facturier/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the browser editor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fx.New(
			coreModules(),
			server.Module,
		).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
