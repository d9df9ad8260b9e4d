package main

import (
	"context"
	"fmt"
	"os"

	"github.com/smallbiznis/facturier/internal/backup"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the whole dataset as JSON",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup of documents, clients and products",
	Example: `  # Print the backup
  facturier backup export

  # Save it under the dated default name
  facturier backup export --out auto`,
	Args: cobra.NoArgs,
	RunE: runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge a backup file into the database",
	Long: `Merge a backup file into the database. Documents are merged by docId,
clients and products are replaced when the file carries any. Files holding a
bare array of documents are accepted too.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)

	backupExportCmd.Flags().StringP("out", "o", "", `Output file path, "auto" for the dated default name (default: stdout)`)
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")

	var svc *backup.Service
	return runOffline(cmd.Context(), func(ctx context.Context) error {
		bundle, err := svc.Export(ctx)
		if err != nil {
			return err
		}
		body, err := backup.Encode(bundle)
		if err != nil {
			return err
		}

		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(append(body, '\n'))
			return err
		}
		if outPath == "auto" {
			outPath = svc.FileNameNow()
		}
		if err := os.WriteFile(outPath, body, 0o644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Backup written to %s (%d documents)\n", outPath, len(bundle.Invoices))
		return nil
	}, &svc)
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	var svc *backup.Service
	return runOffline(cmd.Context(), func(ctx context.Context) error {
		res, err := svc.Import(ctx, payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d documents, %d clients and %d products\n", res.Documents, res.Clients, res.Products)
		return nil
	}, &svc)
}
