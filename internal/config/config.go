// Package config provides configuration management for the ratingsim tool.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Sweep      SweepConfig      `mapstructure:"sweep"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SimulationConfig describes one ratings experiment: the synthetic league and
// the linear scoring model it is scored under.
type SimulationConfig struct {
	NumTeams      int     `mapstructure:"num_teams" validate:"required,gte=2"`
	NumGames      int     `mapstructure:"num_games" validate:"required,gt=0"`
	Seed          int64   `mapstructure:"seed"`
	Intercept     float64 `mapstructure:"intercept"`
	HomeAdvantage float64 `mapstructure:"home_advantage"`
	NoiseStd      float64 `mapstructure:"noise_std" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration. Persistence is
// optional; when Enabled is false the rest of the fields are ignored.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// SweepConfig configures the long-running sweep mode: a cron schedule that
// repeatedly runs the configured experiment across a range of seeds.
type SweepConfig struct {
	Schedule        string `mapstructure:"schedule"`
	Seeds           int    `mapstructure:"seeds" validate:"omitempty,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
