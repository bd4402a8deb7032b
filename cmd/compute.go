package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/h200-index/internal/registry"
)

var computeDryRun bool

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Run one index computation cycle",
	Long:  "Collects prices from all registered providers, computes the weighted index, validates it against history, and persists the result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		snap, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		orch := initOrchestrator(snap, st)
		result, err := orch.RunCycle(ctx)
		if err != nil {
			zap.L().Error("cycle failed", zap.Error(err))
			return err
		}

		if computeDryRun {
			zap.L().Info("dry run, result not persisted")
		} else if err := st.InsertResult(ctx, result); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	computeCmd.Flags().BoolVar(&computeDryRun, "dry-run", false, "compute without persisting the result")
	rootCmd.AddCommand(computeCmd)
}
