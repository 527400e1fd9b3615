package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dosmundos/admin-tools/internal/episodes"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName      string `mapstructure:"app_name"`
	Env          string `mapstructure:"app_env"`
	LogLevel     string `mapstructure:"log_level"`
	ExportPath   string `mapstructure:"export_path"`
	OutputFormat string `mapstructure:"output_format"`
	PatchesFile  string `mapstructure:"patches_file"`

	// Ledger stays off unless ledger_type names a backend.
	LedgerType       string        `mapstructure:"ledger_type"`
	LedgerPath       string        `mapstructure:"ledger_path"`
	LedgerTTLSeconds int64         `mapstructure:"ledger_ttl_seconds"`
	LedgerTTL        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "dosmundos-admin")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("export_path", "/tmp/supabase-backup-2026-02-09T10-52-09-postgres.sql")
	v.SetDefault("output_format", episodes.FormatTSV)
	v.SetDefault("patches_file", "./configs/patches.yaml")
	v.SetDefault("ledger_type", "none")
	v.SetDefault("ledger_path", "./data/ledger.db")
	v.SetDefault("ledger_ttl_seconds", int64((30*24*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.ExportPath = strings.TrimSpace(cfg.ExportPath)
	if cfg.ExportPath == "" {
		return fmt.Errorf("export_path must not be empty")
	}

	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	switch cfg.OutputFormat {
	case "":
		cfg.OutputFormat = episodes.FormatTSV
	case episodes.FormatTSV, episodes.FormatTable:
	default:
		return fmt.Errorf("invalid output_format %q (expected %s or %s)", cfg.OutputFormat, episodes.FormatTSV, episodes.FormatTable)
	}

	if cfg.LedgerTTLSeconds <= 0 {
		return fmt.Errorf("invalid ledger_ttl_seconds (must be positive seconds)")
	}
	cfg.LedgerTTL = time.Duration(cfg.LedgerTTLSeconds) * time.Second

	return nil
}
