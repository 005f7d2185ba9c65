// Package config handles application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Upstream PostgreSQL server this CLI dials out to.
	Conn ConnConfig `mapstructure:"conn"`

	// Logging
	Log LogConfig `mapstructure:"log"`

	// Interactive TUI (bubbletea) settings
	TUI TUIConfig `mapstructure:"tui"`
}

type ConnConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Database       string        `mapstructure:"database"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type TUIConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	ShowNotice bool `mapstructure:"show_notice"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Conn: ConnConfig{
			Host:           "localhost",
			Port:           5432,
			SSLMode:        "prefer",
			ConnectTimeout: 10 * time.Second,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		TUI: TUIConfig{
			Enabled:    true,
			ShowNotice: true,
		},
	}
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pgproto3cli"
	}
	return filepath.Join(home, ".pgproto3cli")
}

// Load loads configuration from file, env vars, and flags
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("conn.host", defaults.Conn.Host)
	v.SetDefault("conn.port", defaults.Conn.Port)
	v.SetDefault("conn.ssl_mode", defaults.Conn.SSLMode)
	v.SetDefault("conn.connect_timeout", defaults.Conn.ConnectTimeout)
	v.SetDefault("conn.read_timeout", defaults.Conn.ReadTimeout)
	v.SetDefault("conn.write_timeout", defaults.Conn.WriteTimeout)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("tui.enabled", defaults.TUI.Enabled)
	v.SetDefault("tui.show_notice", defaults.TUI.ShowNotice)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultConfigDir())
		v.AddConfigPath("/etc/pgproto3cli")
	}

	// Environment variables
	v.SetEnvPrefix("pgproto3")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to a file
func (c *Config) Save(path string) error {
	v := viper.New()
	v.Set("conn", c.Conn)
	v.Set("log", c.Log)
	v.Set("tui", c.TUI)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.Conn.Host == "" {
		return fmt.Errorf("conn.host is required")
	}
	if c.Conn.User == "" {
		return fmt.Errorf("conn.user is required")
	}
	if c.Conn.Port <= 0 {
		return fmt.Errorf("conn.port must be positive")
	}
	return nil
}
