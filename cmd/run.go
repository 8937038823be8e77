package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/fleximart/etl-pipeline/internal/config"
	"github.com/fleximart/etl-pipeline/internal/db"
	"github.com/fleximart/etl-pipeline/internal/logger"
	"github.com/fleximart/etl-pipeline/internal/metrics"
	"github.com/fleximart/etl-pipeline/internal/pipeline"
	"github.com/fleximart/etl-pipeline/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full ETL pipeline and write the data quality report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger.Init(cfg.Log.Level)
		log := logger.Log
		defer func() { _ = log.Sync() }()

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		metrics.MustRegister(prometheus.DefaultRegisterer)

		m, err := pipeline.New(cfg, sqlDB, log).Run(context.Background())
		if err != nil {
			return err
		}
		m.GeneratedAt = time.Now()
		metrics.Export(m)

		if err := report.Write(cfg.Report.OutputPath, m); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if err := m.SaveSnapshot(cfg.Report.SnapshotPath); err != nil {
			return fmt.Errorf("save metrics snapshot: %w", err)
		}

		log.Info("ETL pipeline completed successfully")
		fmt.Printf("Report written to %s\n", cfg.Report.OutputPath)
		return nil
	},
}
