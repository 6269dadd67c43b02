// Package ghsnap fetches repository snapshots from the GitHub API:
// metadata, languages, contributors, and the readme, shaped for the
// layout generator.
package ghsnap

import (
	"context"
	"net/http"
	"time"

	gh "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"

	"github.com/allthrive/pageforge/internal/retry"
)

// Client talks to the GitHub API in one of three modes: GitHub App
// (installation tokens minted per call), static token, or
// unauthenticated (public repos only).
type Client struct {
	app      *AppAuth
	static   *gh.Client
	retryCfg retry.Config
	logger   zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAppAuth switches the client to GitHub App mode.
func WithAppAuth(app *AppAuth) ClientOption {
	return func(c *Client) { c.app = app }
}

// WithToken uses a static personal access token.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.static = gh.NewClient(&http.Client{
			Transport: &tokenTransport{token: token, base: http.DefaultTransport},
			Timeout:   30 * time.Second,
		})
	}
}

// WithGitHubClient injects a pre-built go-github client. Test hook, and
// escape hatch for enterprise base URLs.
func WithGitHubClient(client *gh.Client) ClientOption {
	return func(c *Client) { c.static = client }
}

// WithRetryConfig overrides the default backoff policy.
func WithRetryConfig(cfg retry.Config) ClientOption {
	return func(c *Client) { c.retryCfg = cfg }
}

// NewClient builds a Client. Without options it is unauthenticated.
func NewClient(logger zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		retryCfg: retry.DefaultConfig(),
		logger:   logger.With().Str("component", "ghsnap").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.static == nil && c.app == nil {
		c.static = gh.NewClient(&http.Client{Timeout: 30 * time.Second})
	}
	c.retryCfg.OnRetry = func(attempt int, err error) {
		c.logger.Warn().Int("attempt", attempt).Err(err).Msg("retrying GitHub call")
	}
	return c
}

// api returns a go-github client for the current auth mode. In App mode
// a fresh client is built around the current installation token.
func (c *Client) api(ctx context.Context) (*gh.Client, error) {
	if c.app == nil {
		return c.static, nil
	}
	token, err := c.app.InstallationToken(ctx)
	if err != nil {
		return nil, err
	}
	return gh.NewClient(&http.Client{
		Transport: &tokenTransport{token: token, base: http.DefaultTransport},
		Timeout:   30 * time.Second,
	}), nil
}

// Ping verifies API reachability with a cheap zen call.
func (c *Client) Ping(ctx context.Context) error {
	api, err := c.api(ctx)
	if err != nil {
		return err
	}
	_, _, err = api.Zen(ctx)
	return err
}
