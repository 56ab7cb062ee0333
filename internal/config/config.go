package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/floware/stockview"
)

// Config holds all stockview configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Client   ClientConfig   `yaml:"client"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the gorm dialect and connection.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres, mysql
	DSN    string `yaml:"dsn"`
	// Seed fills an empty products table with demo data on start.
	Seed bool `yaml:"seed"`
}

// ClientConfig configures the REST client used by the terminal UI.
type ClientConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the list view.
type UIConfig struct {
	PerPage int `yaml:"per_page"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var _drivers = []string{DriverSQLite, DriverPostgres, DriverMySQL}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":9090",
			ReadTimeout:     "10s",
			WriteTimeout:    "10s",
			ShutdownTimeout: "5s",
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "stockview.db",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:9090/api",
			Timeout: "5s",
		},
		UI: UIConfig{
			PerPage: stockview.DefaultPerPage,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML config file on top of DefaultConfig. A missing file is not
// an error when path is empty.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	for name, value := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"client.timeout":          c.Client.Timeout,
	} {
		if _, err := parseDuration(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if !lo.Contains(_drivers, c.Database.Driver) {
		errs = append(errs, fmt.Errorf("database.driver '%s' is not one of %v", c.Database.Driver, _drivers))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Client.BaseURL == "" {
		errs = append(errs, errors.New("client.base_url is required"))
	}
	if _, ok := stockview.IsNormalizedPerPageMax(c.UI.PerPage, stockview.MaxPerPage); !ok {
		errs = append(errs, fmt.Errorf("ui.per_page must be within [1, %d]", stockview.MaxPerPage))
	}

	return errors.Join(errs...)
}

func (s ServerConfig) GetReadTimeout() time.Duration {
	return mustDuration(s.ReadTimeout, 10*time.Second)
}

func (s ServerConfig) GetWriteTimeout() time.Duration {
	return mustDuration(s.WriteTimeout, 10*time.Second)
}

func (s ServerConfig) GetShutdownTimeout() time.Duration {
	return mustDuration(s.ShutdownTimeout, 5*time.Second)
}

func (c ClientConfig) GetTimeout() time.Duration {
	return mustDuration(c.Timeout, 5*time.Second)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	return time.ParseDuration(s)
}

// mustDuration parses s and falls back to def for empty or invalid values.
func mustDuration(s string, def time.Duration) time.Duration {
	d, err := parseDuration(s)
	if err != nil || d <= 0 {
		return def
	}

	return d
}
