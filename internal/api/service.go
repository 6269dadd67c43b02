package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/allthrive/pageforge/internal/analysis"
	"github.com/allthrive/pageforge/internal/cache"
	pferrors "github.com/allthrive/pageforge/internal/errors"
	"github.com/allthrive/pageforge/internal/ghsnap"
	"github.com/allthrive/pageforge/internal/layout"
	"github.com/allthrive/pageforge/internal/metrics"
	"github.com/allthrive/pageforge/internal/notify"
	"github.com/allthrive/pageforge/internal/requestid"
	"github.com/allthrive/pageforge/internal/store"
)

const (
	ModeFull    = "full"
	ModeMinimal = "minimal"
)

// Analyzer produces readme enrichment for a snapshot. Satisfied by
// *analysis.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, repo layout.RepositorySnapshot, readme string) (layout.AnalysisResult, error)
}

var _ Analyzer = (*analysis.Analyzer)(nil)

// Service orchestrates one layout generation end to end: snapshot,
// analysis, generation, persistence, cache, and notification.
type Service struct {
	gh        *ghsnap.Client
	analyzer  Analyzer // nil disables readme analysis
	generator *layout.Generator
	store     *store.Store
	cache     *cache.Cache[string, *store.Layout]
	notifier  *notify.Notifier
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	retention int
}

// ServiceConfig wires the Service dependencies. Analyzer and Notifier
// may be nil.
type ServiceConfig struct {
	GitHub    *ghsnap.Client
	Analyzer  Analyzer
	Generator *layout.Generator
	Store     *store.Store
	Cache     *cache.Cache[string, *store.Layout]
	Notifier  *notify.Notifier
	Metrics   *metrics.Metrics
	Retention int
}

// NewService creates a Service.
func NewService(cfg ServiceConfig, logger zerolog.Logger) *Service {
	gen := cfg.Generator
	if gen == nil {
		gen = layout.New()
	}
	return &Service{
		gh:        cfg.GitHub,
		analyzer:  cfg.Analyzer,
		generator: gen,
		store:     cfg.Store,
		cache:     cfg.Cache,
		notifier:  cfg.Notifier,
		metrics:   cfg.Metrics,
		logger:    logger.With().Str("component", "service").Logger(),
		retention: cfg.Retention,
	}
}

func normalizeMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeMinimal:
		return ModeMinimal, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", pferrors.ErrInvalidInput, mode)
	}
}

func cacheKey(owner, repo, mode string) string {
	return strings.ToLower(owner) + "/" + strings.ToLower(repo) + "@" + mode
}

// Generate fetches owner/repo from GitHub, runs analysis when enabled,
// generates a layout document, persists it, and caches the result.
// force bypasses the cache.
func (s *Service) Generate(ctx context.Context, owner, repo, mode string, force bool) (*store.Layout, bool, error) {
	mode, err := normalizeMode(mode)
	if err != nil {
		return nil, false, err
	}
	if owner == "" || repo == "" {
		return nil, false, fmt.Errorf("%w: owner and repo are required", pferrors.ErrInvalidInput)
	}

	key := cacheKey(owner, repo, mode)
	if !force && s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			s.logger.Debug().
				Str("repo", owner+"/"+repo).
				Str("request_id", requestid.FromContext(ctx)).
				Msg("layout served from cache")
			return cached, true, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	start := time.Now()
	rec, err := s.generate(ctx, owner, repo, mode)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordGeneration(mode, "error")
		}
		if s.notifier != nil {
			s.notifier.GenerationFailed(notify.GenerationEvent{
				Owner: owner, Repo: repo, Mode: mode, Err: err,
			})
		}
		return nil, false, err
	}

	if s.metrics != nil {
		s.metrics.RecordGeneration(mode, "success")
		s.metrics.ObserveGeneration(mode, time.Since(start).Seconds())
		for _, comp := range rec.Document.Components {
			s.metrics.RecordComponent(string(comp.Kind))
		}
	}
	if s.cache != nil {
		s.cache.Put(key, rec)
	}
	if s.notifier != nil {
		s.notifier.GenerationCompleted(notify.GenerationEvent{
			Owner:          owner,
			Repo:           repo,
			LayoutID:       rec.ID,
			Mode:           mode,
			ComponentCount: rec.ComponentCount,
			SourceURL:      rec.SourceURL,
		})
	}

	s.logger.Info().
		Str("repo", owner+"/"+repo).
		Str("layout_id", rec.ID).
		Str("mode", mode).
		Str("request_id", requestid.FromContext(ctx)).
		Int("components", rec.ComponentCount).
		Dur("elapsed", time.Since(start)).
		Msg("layout generated")

	return rec, false, nil
}

func (s *Service) generate(ctx context.Context, owner, repo, mode string) (*store.Layout, error) {
	snap, err := s.gh.FetchSnapshot(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot for %s/%s: %w", owner, repo, err)
	}

	in := layout.Input{
		Repository:   snap.Repository,
		Contributors: snap.Contributors,
		Languages:    snap.Languages,
	}

	if s.analyzer != nil && mode == ModeFull && snap.Readme != "" {
		result, err := s.analyzer.Analyze(ctx, snap.Repository, snap.Readme)
		if err != nil {
			// Analysis is enrichment; the layout degrades to
			// snapshot-only data when it fails.
			s.logger.Warn().Err(err).
				Str("repo", owner+"/"+repo).
				Str("request_id", requestid.FromContext(ctx)).
				Msg("readme analysis failed")
			if s.metrics != nil {
				s.metrics.RecordUpstreamError("anthropic", "analysis")
			}
		} else {
			in.Analysis = result
		}
	}

	var doc *layout.Document
	if mode == ModeMinimal {
		doc = s.generator.GenerateMinimal(in)
	} else {
		doc = s.generator.Generate(in)
	}

	rec := &store.Layout{
		ID:             uuid.NewString(),
		Owner:          owner,
		Repo:           repo,
		SourceURL:      snap.Repository.URL,
		Version:        doc.Version,
		Mode:           mode,
		ComponentCount: len(doc.Components),
		Document:       doc,
	}
	if s.store != nil {
		if err := s.store.SaveLayout(rec); err != nil {
			return nil, fmt.Errorf("persisting layout: %w", err)
		}
		if s.retention > 0 {
			if dropped, err := s.store.TrimRetention(s.retention); err != nil {
				s.logger.Warn().Err(err).Msg("retention trim failed")
			} else if dropped > 0 {
				s.logger.Debug().Int64("dropped", dropped).Msg("trimmed old layouts")
			}
		}
	}
	return rec, nil
}

// Preview generates a document from caller-supplied input without
// fetching or persisting anything.
func (s *Service) Preview(in layout.Input, mode string) (*layout.Document, error) {
	mode, err := normalizeMode(mode)
	if err != nil {
		return nil, err
	}
	if in.Repository.Name == "" {
		return nil, fmt.Errorf("%w: repository.name is required", pferrors.ErrInvalidInput)
	}
	if mode == ModeMinimal {
		return s.generator.GenerateMinimal(in), nil
	}
	return s.generator.Generate(in), nil
}

// Get returns a stored layout by ID.
func (s *Service) Get(id string) (*store.Layout, error) {
	return s.store.GetLayout(id)
}

// List returns stored layouts, newest first.
func (s *Service) List(filter store.LayoutFilter) ([]*store.Layout, error) {
	return s.store.ListLayouts(filter)
}

// Delete removes a stored layout and evicts it from the cache.
func (s *Service) Delete(id string) error {
	rec, err := s.store.GetLayout(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteLayout(id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(cacheKey(rec.Owner, rec.Repo, rec.Mode))
	}
	return nil
}
