// Package analysis enriches repository snapshots with AI-derived fields
// (description, pull quote, readme content blocks, detected tools) via
// the Anthropic Messages API.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	pferrors "github.com/allthrive/pageforge/internal/errors"
	"github.com/allthrive/pageforge/internal/layout"
	"github.com/allthrive/pageforge/internal/retry"
)

const (
	defaultAPIBase   = "https://api.anthropic.com/v1"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 4096
	defaultModel     = "claude-sonnet-4-5"
)

// Analyzer calls the Anthropic Messages API to produce an AnalysisResult.
type Analyzer struct {
	apiKey    string
	apiBase   string
	model     string
	maxTokens int
	client    *http.Client
	retryCfg  retry.Config
	logger    zerolog.Logger
}

// Option configures the analyzer.
type Option func(*Analyzer)

func WithModel(model string) Option {
	return func(a *Analyzer) { a.model = model }
}

func WithMaxTokens(n int) Option {
	return func(a *Analyzer) { a.maxTokens = n }
}

func WithHTTPClient(c *http.Client) Option {
	return func(a *Analyzer) { a.client = c }
}

// WithAPIBase overrides the API endpoint. Test hook.
func WithAPIBase(base string) Option {
	return func(a *Analyzer) { a.apiBase = base }
}

func WithRetryConfig(cfg retry.Config) Option {
	return func(a *Analyzer) { a.retryCfg = cfg }
}

// New constructs an Analyzer.
func New(apiKey string, logger zerolog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		apiKey:    apiKey,
		apiBase:   defaultAPIBase,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		client:    &http.Client{Timeout: 120 * time.Second},
		retryCfg:  retry.DefaultConfig(),
		logger:    logger.With().Str("component", "analysis").Logger(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// ModelID returns the configured model identifier.
func (a *Analyzer) ModelID() string { return a.model }

// ---- Anthropic wire types ----

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze asks the model for enrichment fields over the snapshot and
// readme. The result degrades field-by-field: a malformed model payload
// yields whatever fields did parse, never an error that would block
// layout generation.
func (a *Analyzer) Analyze(ctx context.Context, repo layout.RepositorySnapshot, readme string) (layout.AnalysisResult, error) {
	req := anthropicRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildUserPrompt(repo, readme)},
		},
	}

	var text string
	err := retry.Do(ctx, a.retryCfg, func(ctx context.Context) error {
		var err error
		text, err = a.complete(ctx, req)
		return err
	})
	if err != nil {
		return layout.AnalysisResult{}, err
	}

	result, parseErr := ParseResult(text)
	if parseErr != nil {
		a.logger.Warn().Err(parseErr).Msg("analysis payload partially unparseable")
	}
	return result, nil
}

func (a *Analyzer) complete(ctx context.Context, req anthropicRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.apiBase+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic http: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &pferrors.APIError{
			Service:    "anthropic",
			StatusCode: resp.StatusCode,
			Message:    "completion request failed",
		}
	}

	var ar anthropicResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if ar.Error != nil {
		return "", fmt.Errorf("anthropic api error %s: %s", ar.Error.Type, ar.Error.Message)
	}

	var text string
	for _, block := range ar.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("anthropic response contained no text")
	}
	return text, nil
}
