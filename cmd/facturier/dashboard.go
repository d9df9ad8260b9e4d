package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/smallbiznis/facturier/internal/document/amount"
	docrepo "github.com/smallbiznis/facturier/internal/document/repository"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print cash collected, outstanding balances and recent documents",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	var history *docrepo.History
	return runOffline(cmd.Context(), func(ctx context.Context) error {
		docs, err := history.All(ctx)
		if err != nil {
			return err
		}
		summary := amount.Summarize(docs)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Encaissé\t%s\n", amount.FormatMoney(summary.Cash))
		fmt.Fprintf(w, "Reste à recouvrer\t%s\n", amount.FormatMoney(summary.Outstanding))
		fmt.Fprintf(w, "Chiffre d'affaires\t%s\n", amount.FormatMoney(summary.Revenue))
		fmt.Fprintf(w, "Documents\t%d\n", summary.DocumentCount)
		if len(summary.Recent) > 0 {
			fmt.Fprintln(w)
			for _, a := range summary.Recent {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.Date, a.Number, a.Status, a.Recipient, amount.FormatMoney(a.Total))
			}
		}
		return w.Flush()
	}, &history)
}
