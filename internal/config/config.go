// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database    DatabaseConfig     `mapstructure:"database"`
	Logging     LoggingConfig      `mapstructure:"logging"`
	Blocklist   BlocklistConfig    `mapstructure:"blocklist"`
	Scoring     ScoringConfig      `mapstructure:"scoring"`
	Downloaders []DownloaderConfig `mapstructure:"downloaders"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// BlocklistConfig holds blocklist maintenance settings.
type BlocklistConfig struct {
	PruneInterval time.Duration `mapstructure:"prune_interval"`
}

// ScoringConfig holds release scoring settings.
type ScoringConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// DownloaderConfig describes one configured download client.
type DownloaderConfig struct {
	Name     string `mapstructure:"name"`
	Type     string `mapstructure:"type"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	APIKey   string `mapstructure:"api_key"`
	Category string `mapstructure:"category"`
	UseSSL   bool   `mapstructure:"use_ssl"`
	Enabled  bool   `mapstructure:"enabled"`
	Priority int    `mapstructure:"priority"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./data/driftarr.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Blocklist: BlocklistConfig{
			PruneInterval: time.Hour,
		},
		Scoring: ScoringConfig{
			CacheSize: 2048,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.driftarr")
	}

	v.SetEnvPrefix("DRIFTARR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; defaults plus env vars are a valid setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "./data/driftarr.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("blocklist.prune_interval", time.Hour)

	v.SetDefault("scoring.cache_size", 2048)
}
