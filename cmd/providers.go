package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/h200-index/internal/registry"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the registered providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTIER\tREVENUE (USD)\tFALLBACK ($/hr)\tDISCOUNT")
		for _, p := range snap.Providers() {
			revenue := "unknown"
			if p.QuarterlyRevenueUSD != nil {
				revenue = fmt.Sprintf("%.0f", *p.QuarterlyRevenueUSD)
			}
			discount := "-"
			if p.Discount != nil {
				discount = fmt.Sprintf("%.0f%% on %.0f%%", p.Discount.Rate*100, p.Discount.DiscountedFraction*100)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", p.Name, p.Tier, revenue, p.FallbackPriceUSD, discount)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
