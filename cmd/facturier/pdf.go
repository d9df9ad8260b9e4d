package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	docrepo "github.com/smallbiznis/facturier/internal/document/repository"
	"github.com/smallbiznis/facturier/internal/providers/pdf"
	"github.com/spf13/cobra"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf DOCID",
	Short: "Render a saved document to PDF",
	Example: `  # Write invoice_fac-2024-001.pdf in the current directory
  facturier pdf 1718000000000

  # Choose the output file
  facturier pdf 1718000000000 -o facture.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().StringP("out", "o", "", "Output file path (default: derived from type and number)")
}

func runPDF(cmd *cobra.Command, args []string) error {
	docID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}
	outPath, _ := cmd.Flags().GetString("out")

	var (
		history  *docrepo.History
		provider pdf.Provider
	)
	return runOffline(cmd.Context(), func(ctx context.Context) error {
		doc, err := history.Get(ctx, docID)
		if err != nil {
			return err
		}
		r, err := provider.Render(ctx, doc)
		if err != nil {
			return err
		}
		body, err := io.ReadAll(r)
		if err != nil {
			return err
		}

		if outPath == "" {
			outPath = pdf.FileName(doc)
		}
		if err := os.WriteFile(outPath, body, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s written to %s\n", doc.Type, doc.Number, outPath)
		return nil
	}, &history, &provider)
}
