package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent index values",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		results, err := st.LatestResults(ctx, historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tINDEX\tOUTCOME\tHYPERSCALER\tNEOCLOUD\tWARNINGS")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%.4f\t%s\t%.4f\t%.4f\t%d\n",
				r.Timestamp.UTC().Format(time.RFC3339), r.IndexValue, r.Outcome,
				r.HyperscalerComponent, r.NeocloudComponent, len(r.Warnings))
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of results to show")
	rootCmd.AddCommand(historyCmd)
}
