package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bureau-etl/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bureau-etl",
	Short: "Credit bureau report normalization pipeline",
	Long:  "Ingests heterogeneous credit-bureau JSON reports, normalizes them into Lead/Loan/Enquiry records, enriches and deduplicates them, and renders analytics workbooks.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
