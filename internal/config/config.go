// Package config loads runtime configuration from a config file, environment
// variables, and flags, in that order of increasing precedence. A .env file
// in the working directory is folded into the environment before Viper reads
// it, so local development and container deployments use the same keys.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/logging"
)

// Config is the full runtime configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Log      LogConfig      `mapstructure:"log"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN          string        `mapstructure:"dsn"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ScanConfig bounds scan concurrency and storage pressure.
type ScanConfig struct {
	Workers    int     `mapstructure:"workers"`
	BatchLimit int     `mapstructure:"batch_limit"`
	QueryRate  float64 `mapstructure:"query_rate"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CatalogConfig selects the field catalog. An empty path means the embedded
// default catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// Defaults applied before any file or environment override.
func setDefaults(v *viper.Viper) {
	// Keys must exist for AutomaticEnv to surface them through Unmarshal.
	v.SetDefault("database.dsn", "")
	v.SetDefault("catalog.path", "")
	v.SetDefault("database.query_timeout", 10*time.Second)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("scan.workers", 8)
	v.SetDefault("scan.batch_limit", 4)
	v.SetDefault("scan.query_rate", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
}

// Load reads configuration from the optional config file path, then the
// environment. Environment keys are upper-snake with a GAPSCAN_ prefix, e.g.
// GAPSCAN_DATABASE_DSN.
func Load(configFile string) (*Config, error) {
	// Ignore a missing .env; it is a development convenience.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GAPSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		v.SetConfigName("gapscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/gapscan")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "reading config file", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("config", "unmarshaling", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewConfigError("server.port", fmt.Sprintf("port %d out of range", c.Server.Port), nil)
	}
	if c.Scan.Workers < 1 {
		return errors.NewConfigError("scan.workers", "must be at least 1", nil)
	}
	if c.Scan.BatchLimit < 1 {
		return errors.NewConfigError("scan.batch_limit", "must be at least 1", nil)
	}
	if c.Scan.QueryRate < 0 {
		return errors.NewConfigError("scan.query_rate", "must not be negative", nil)
	}
	return nil
}

// LoggingConfig converts the log section into the logging package's config.
func (c *Config) LoggingConfig() *logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}
