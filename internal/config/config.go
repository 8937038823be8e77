package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	MySQL   DatabaseConfig `mapstructure:"mysql"`
	Extract ExtractConfig  `mapstructure:"extract"`
	Report  ReportConfig   `mapstructure:"report"`
	Log     LogConfig      `mapstructure:"log"`
}

// ---- Leaf structs ----

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type ExtractConfig struct {
	CustomersCSV string `mapstructure:"customers_csv"`
	ProductsCSV  string `mapstructure:"products_csv"`
	SalesCSV     string `mapstructure:"sales_csv"`
}

type ReportConfig struct {
	OutputPath   string `mapstructure:"output_path"`
	SnapshotPath string `mapstructure:"snapshot_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (FLEXIMART_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (FLEXIMART_*)
	v.SetEnvPrefix("FLEXIMART")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the one setting the pipeline cannot run without.
func (c Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required (set it in the config file or FLEXIMART_MYSQL_DSN)")
	}
	return nil
}
