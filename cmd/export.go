package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/h200-index/internal/export"
)

var exportLimit int

var exportCmd = &cobra.Command{
	Use:   "export <file.csv|file.xlsx>",
	Short: "Export index history to CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		results, err := st.LatestResults(ctx, exportLimit)
		if err != nil {
			return err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			f, err := os.Create(path)
			if err != nil {
				return eris.Wrapf(err, "create %s", path)
			}
			defer f.Close()
			if err := export.WriteCSV(f, results); err != nil {
				return err
			}
		case ".xlsx":
			if err := export.WriteXLSX(path, results); err != nil {
				return err
			}
		default:
			return eris.Errorf("unsupported export format: %s (use .csv or .xlsx)", filepath.Ext(path))
		}

		zap.L().Info("export complete", zap.String("path", path), zap.Int("results", len(results)))
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportLimit, "limit", 100, "number of results to export")
	rootCmd.AddCommand(exportCmd)
}
