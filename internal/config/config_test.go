// Package config tests.
package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "pageforge.db", cfg.DBPath)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "claude-sonnet-4-5", cfg.AnthropicModel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("CACHE_SIZE", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.True(t, cfg.AnalysisEnabled())
}

func TestConfig_EnabledFlags(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.GitHubAppEnabled())
	assert.False(t, cfg.AnalysisEnabled())
	assert.False(t, cfg.SlackEnabled())

	cfg.GitHubAppID = 123
	cfg.GitHubInstallationID = 456
	cfg.GitHubPrivateKeyPath = "/tmp/key.pem"
	assert.True(t, cfg.GitHubAppEnabled())

	cfg.SlackBotToken = "xoxb-test"
	cfg.SlackChannel = "#showcase-pages"
	assert.True(t, cfg.SlackEnabled())
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("PF_LISTEN_ADDR", ":7070")
	cfg, err := LoadWithPrefix("PF")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ListenAddr)
}
