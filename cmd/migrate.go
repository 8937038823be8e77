package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleximart/etl-pipeline/internal/config"
	"github.com/fleximart/etl-pipeline/internal/db"
	"github.com/fleximart/etl-pipeline/internal/schema"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Ensure the target tables and constraints exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

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

		if err := schema.Ensure(context.Background(), sqlDB); err != nil {
			return err
		}

		fmt.Println(">> Schema ensured")
		return nil
	},
}
