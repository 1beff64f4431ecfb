// Package config provides configuration management for the value bet engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	APISports APISportsConfig `mapstructure:"api_sports" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" validate:"required"`
	Schedule  ScheduleConfig  `mapstructure:"schedule" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Health    HealthConfig    `mapstructure:"health" validate:"required"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
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

// APISportsConfig represents the fixtures and standings provider configuration
type APISportsConfig struct {
	BaseURL           string `mapstructure:"base_url" validate:"required,url"`
	APIKey            string `mapstructure:"api_key" validate:"required"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// OddsAPIConfig represents the odds provider configuration
type OddsAPIConfig struct {
	BaseURL           string   `mapstructure:"base_url" validate:"required,url"`
	APIKey            string   `mapstructure:"api_key" validate:"required"`
	Regions           string   `mapstructure:"regions" validate:"required"`
	Bookmakers        []string `mapstructure:"bookmakers"`
	CacheTTLSeconds   int      `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	RequestsPerMinute int      `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// TelegramConfig represents the notification and command channel configuration
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
	TopBets  int    `mapstructure:"top_bets" validate:"omitempty,gt=0"`
}

// LeagueConfig identifies one tracked league
type LeagueConfig struct {
	ID   int    `mapstructure:"id" validate:"required,gt=0"`
	Name string `mapstructure:"name" validate:"required"`
}

// PipelineConfig represents value detection tunables
type PipelineConfig struct {
	Leagues        []LeagueConfig `mapstructure:"leagues" validate:"required,min=1,dive"`
	Season         int            `mapstructure:"season" validate:"required,gte=2000"`
	ValueThreshold float64        `mapstructure:"value_threshold" validate:"gte=0,lt=1"`
	MinProbability float64        `mapstructure:"min_probability" validate:"gte=0,lte=1"`
	DaysAhead      int            `mapstructure:"days_ahead" validate:"required,gt=0"`
}

// LeagueIDs returns the configured league IDs in declaration order.
func (p PipelineConfig) LeagueIDs() []int {
	ids := make([]int, 0, len(p.Leagues))
	for _, l := range p.Leagues {
		ids = append(ids, l.ID)
	}
	return ids
}

// LeagueNameMap returns league names keyed by ID.
func (p PipelineConfig) LeagueNameMap() map[int]string {
	names := make(map[int]string, len(p.Leagues))
	for _, l := range p.Leagues {
		names[l.ID] = l.Name
	}
	return names
}

// ScheduleConfig represents the worker's daily schedule, hours in UTC
type ScheduleConfig struct {
	RunHour     int `mapstructure:"run_hour" validate:"min=0,max=23"`
	RefreshHour int `mapstructure:"refresh_hour" validate:"min=0,max=23"`
	SettleHour  int `mapstructure:"settle_hour" validate:"min=0,max=23"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health and read-only API server configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// SecretsConfig represents the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
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
