package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/allthrive/pageforge/internal/analysis"
	"github.com/allthrive/pageforge/internal/api"
	"github.com/allthrive/pageforge/internal/cache"
	"github.com/allthrive/pageforge/internal/config"
	"github.com/allthrive/pageforge/internal/ghsnap"
	"github.com/allthrive/pageforge/internal/health"
	"github.com/allthrive/pageforge/internal/layout"
	"github.com/allthrive/pageforge/internal/metrics"
	"github.com/allthrive/pageforge/internal/notify"
	"github.com/allthrive/pageforge/internal/store"
	"github.com/allthrive/pageforge/pkg/tokenstore"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if os.Getenv("ENVIRONMENT") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err == nil {
		zerolog.SetGlobalLevel(level)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("listen_addr", cfg.ListenAddr).
		Bool("github_app", cfg.GitHubAppEnabled()).
		Bool("analysis_enabled", cfg.AnalysisEnabled()).
		Bool("slack_enabled", cfg.SlackEnabled()).
		Msg("starting pageforge")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	checker := health.NewChecker(logger)
	collector := metrics.New()

	// GitHub client: App credentials, plain token, or unauthenticated
	var ghOpts []ghsnap.ClientOption
	switch {
	case cfg.GitHubAppEnabled():
		tokens := tokenstore.NewMemoryStore()
		appAuth, err := ghsnap.NewAppAuth(
			cfg.GitHubAppID,
			cfg.GitHubInstallationID,
			cfg.GitHubPrivateKeyPath,
			tokens,
			logger,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init GitHub App auth")
		}
		ghOpts = append(ghOpts, ghsnap.WithAppAuth(appAuth))
		logger.Info().Msg("GitHub App auth enabled")
	case cfg.GitHubToken != "":
		ghOpts = append(ghOpts, ghsnap.WithToken(cfg.GitHubToken))
		logger.Info().Msg("GitHub token auth enabled")
	default:
		logger.Warn().Msg("no GitHub credentials configured — unauthenticated rate limits apply")
	}
	ghClient := ghsnap.NewClient(logger, ghOpts...)
	checker.Register("github", func(ctx context.Context) health.Status {
		if err := ghClient.Ping(ctx); err != nil {
			return health.StatusDown
		}
		return health.StatusOK
	})

	// Anthropic analyzer (optional)
	var analyzer api.Analyzer
	if cfg.AnalysisEnabled() {
		analyzer = analysis.New(cfg.AnthropicAPIKey, logger,
			analysis.WithModel(cfg.AnthropicModel),
			analysis.WithMaxTokens(cfg.AnalysisMaxTokens),
		)
		logger.Info().Str("model", cfg.AnthropicModel).Msg("readme analysis enabled")
	} else {
		logger.Info().Msg("readme analysis not configured — layouts use snapshot data only")
	}

	// Storage
	st, err := store.New(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()
	checker.Register("store", func(ctx context.Context) health.Status {
		if err := st.Ping(); err != nil {
			return health.StatusDown
		}
		return health.StatusOK
	})

	// Slack notifications (optional)
	var notifier *notify.Notifier
	if cfg.SlackEnabled() {
		notifier = notify.New(cfg.SlackBotToken, cfg.SlackChannel, logger)
		logger.Info().Str("channel", cfg.SlackChannel).Msg("Slack notifications enabled")
	} else {
		logger.Info().Msg("Slack not configured — notifications disabled")
	}

	svc := api.NewService(api.ServiceConfig{
		GitHub:    ghClient,
		Analyzer:  analyzer,
		Generator: layout.New(),
		Store:     st,
		Cache:     cache.New[string, *store.Layout](cfg.CacheSize, cfg.CacheTTL),
		Notifier:  notifier,
		Metrics:   collector,
		Retention: cfg.RetentionCount,
	}, logger)

	handlers := api.NewHandlers(svc, checker, logger)
	server := api.NewServer(api.ServerConfig{
		ListenAddr:  cfg.ListenAddr,
		APIKey:      cfg.APIKey,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit: api.RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
	}, handlers, collector, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("api server error")
		}
	}()

	// Warm the readiness cache
	go checker.RunAll(ctx)

	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	cancel()

	if err := server.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("api server shutdown error")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info().Msg("all goroutines stopped")
	case <-time.After(15 * time.Second):
		logger.Warn().Msg("forced shutdown after timeout")
	}

	logger.Info().Msg("pageforge stopped")
}
