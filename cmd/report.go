package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleximart/etl-pipeline/internal/config"
	"github.com/fleximart/etl-pipeline/internal/metrics"
	"github.com/fleximart/etl-pipeline/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-render the data quality report from the last saved metrics snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		m, err := metrics.LoadSnapshot(cfg.Report.SnapshotPath)
		if err != nil {
			return fmt.Errorf("load metrics snapshot: %w", err)
		}

		if err := report.Write(cfg.Report.OutputPath, m); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		fmt.Printf("Report written to %s\n", cfg.Report.OutputPath)
		return nil
	},
}
