// Package config loads pageforge configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`

	// API
	APIKey         string `envconfig:"API_KEY"` // empty disables auth (development only)
	CORSOrigins    string `envconfig:"CORS_ORIGINS"`
	RateLimitRPS   int    `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int    `envconfig:"RATE_LIMIT_BURST" default:"100"`

	// GitHub access. Either a GitHub App (app ID + installation +
	// private key) or a plain token; unauthenticated works for public
	// repos at a reduced rate limit.
	GitHubToken          string `envconfig:"GITHUB_TOKEN"`
	GitHubAppID          int64  `envconfig:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `envconfig:"GITHUB_INSTALLATION_ID"`
	GitHubPrivateKeyPath string `envconfig:"GITHUB_PRIVATE_KEY_PATH"`

	// Anthropic analysis (optional — layouts degrade to snapshot-only
	// enrichment when unset)
	AnthropicAPIKey    string        `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel     string        `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5"`
	AnalysisTimeout    time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"90s"`
	AnalysisMaxTokens  int           `envconfig:"ANALYSIS_MAX_TOKENS" default:"4096"`

	// Storage
	DBPath         string        `envconfig:"DB_PATH" default:"pageforge.db"`
	RetentionCount int           `envconfig:"RETENTION_COUNT" default:"500"` // layouts kept per repo list trim
	CacheSize      int           `envconfig:"CACHE_SIZE" default:"128"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"15m"`

	// Slack notifications (optional)
	SlackBotToken string `envconfig:"SLACK_BOT_TOKEN"`
	SlackChannel  string `envconfig:"SLACK_CHANNEL" default:"#showcase-pages"`
}

// GitHubAppEnabled returns true if GitHub App credentials are configured.
func (c *Config) GitHubAppEnabled() bool {
	return c.GitHubAppID > 0 && c.GitHubInstallationID > 0 && c.GitHubPrivateKeyPath != ""
}

// AnalysisEnabled returns true if the Anthropic key is configured.
func (c *Config) AnalysisEnabled() bool {
	return c.AnthropicAPIKey != ""
}

// SlackEnabled returns true if Slack notifications are configured.
func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// LoadWithPrefix reads configuration with a prefix.
func LoadWithPrefix(prefix string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config with prefix %s: %w", prefix, err)
	}
	return &cfg, nil
}
