// Package config loads service configuration with viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageBadger = "badger"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables
// prefixed with BOOKMARKS_ (e.g. BOOKMARKS_PORT).
type Config struct {
	Port            int           `mapstructure:"port"`
	Storage         string        `mapstructure:"storage"`
	DBPath          string        `mapstructure:"db_path"`
	BadgerPath      string        `mapstructure:"badger_path"`
	LogLevel        string        `mapstructure:"log_level"`
	Seed            bool          `mapstructure:"seed"`
	Metrics         bool          `mapstructure:"metrics"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("storage", StorageSQLite)
	v.SetDefault("db_path", "./data/bookmarks.db")
	v.SetDefault("badger_path", "./data/badger")
	v.SetDefault("log_level", "info")
	v.SetDefault("seed", false)
	v.SetDefault("metrics", true)
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// Load reads config.yaml from dir (if present) and overlays environment
// variables. A missing config file is not an error.
func Load(dir string) (Config, error) {
	return LoadWith(viper.New(), dir)
}

// LoadWith is Load on a caller-supplied viper instance, so that command
// line flags bound to v take precedence.
func LoadWith(v *viper.Viper, dir string) (Config, error) {
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOOKMARKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage {
	case StorageSQLite, StorageBadger:
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Storage, StorageSQLite, StorageBadger)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}
