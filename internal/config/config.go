// Package config provides configuration management for the totals engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Engine        EngineConfig        `mapstructure:"engine" validate:"required"`
	Hydration     HydrationConfig     `mapstructure:"hydration"`
	IdentityCache IdentityCacheConfig `mapstructure:"identity_cache" validate:"required"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
	Batch         BatchConfig         `mapstructure:"batch" validate:"required"`
	Secrets       SecretsConfig       `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// EngineConfig represents strategy thresholds for matchup computations
type EngineConfig struct {
	EnableRecencyWeighted bool `mapstructure:"enable_recency_weighted"`
	MinSample             int  `mapstructure:"min_sample" validate:"required,gt=0"`
	WeightedMinGames      int  `mapstructure:"weighted_min_games" validate:"required,gt=0"`
	HybridGameLimit       int  `mapstructure:"hybrid_game_limit" validate:"required,gt=0"`
	HybridMinGames        int  `mapstructure:"hybrid_min_games" validate:"required,gt=0"`
}

// HydrationConfig represents the history backfill service
type HydrationConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	BaseURL           string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey            string  `mapstructure:"api_key"`
	YearsBack         int     `mapstructure:"years_back" validate:"gte=0"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryMax          int     `mapstructure:"retry_max" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
}

// IdentityCacheConfig represents the team/franchise id cache
type IdentityCacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int `mapstructure:"max_size" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// BatchConfig represents bulk computation settings
type BatchConfig struct {
	Concurrency      int  `mapstructure:"concurrency" validate:"required,gt=0,lte=64"`
	PersistResults   bool `mapstructure:"persist_results"`
	ContinueOnError  bool `mapstructure:"continue_on_error"`
	ComputeTimeoutMs int  `mapstructure:"compute_timeout_ms" validate:"gte=0"`
}

// SecretsConfig points at an optional AWS Secrets Manager secret
type SecretsConfig struct {
	AWSRegion  string `mapstructure:"aws_region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
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

// HydrationTimeout returns the hydration bound as a duration
func (c *Config) HydrationTimeout() time.Duration {
	return time.Duration(c.Hydration.TimeoutSeconds) * time.Second
}

// IdentityCacheTTL returns the identity cache TTL as a duration
func (c *Config) IdentityCacheTTL() time.Duration {
	return time.Duration(c.IdentityCache.TTLSeconds) * time.Second
}

// ComputeTimeout returns the per-matchup batch timeout, zero when unbounded
func (c *Config) ComputeTimeout() time.Duration {
	return time.Duration(c.Batch.ComputeTimeoutMs) * time.Millisecond
}

