// Package config loads cachesrv's configuration from layered defaults,
// an optional YAML file, and environment variables, all composed with
// github.com/spf13/viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every knob the server needs at startup. Capacity is
// bounded by a fixed item count rather than a memory ceiling.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	MaxItems int `mapstructure:"max_items"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	TCPKeepAlive bool          `mapstructure:"tcp_keepalive"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultConfig returns the historical default port (11222) alongside
// conservative defaults for everything else.
func DefaultConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         11222,
		MaxItems:     10000,
		LogLevel:     "info",
		LogFormat:    "text",
		TCPKeepAlive: true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Load reads configuration from environment variables, an optional YAML
// config file, and any previously-bound command-line flags, falling back
// to DefaultConfig's values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("cachesrv")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/cachesrv/")
	viper.AddConfigPath("$HOME/.cachesrv")

	viper.SetEnvPrefix("CACHESRV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("max_items", cfg.MaxItems)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("log_format", cfg.LogFormat)
	viper.SetDefault("tcp_keepalive", cfg.TCPKeepAlive)
	viper.SetDefault("read_timeout", cfg.ReadTimeout)
	viper.SetDefault("write_timeout", cfg.WriteTimeout)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Validate rejects an unusable configuration.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}

	if c.MaxItems < 1 {
		return fmt.Errorf("max_items must be at least 1")
	}

	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	valid := false
	for _, level := range validLevels {
		if c.LogLevel == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.LogLevel, strings.Join(validLevels, ", "))
	}

	return nil
}

// String returns a one-line summary of the host, port, capacity and log
// level.
func (c *Config) String() string {
	return fmt.Sprintf("cachesrv config: %s:%d, max_items=%d, log_level=%s",
		c.Host, c.Port, c.MaxItems, c.LogLevel)
}
