package api

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allthrive/pageforge/internal/cache"
	pferrors "github.com/allthrive/pageforge/internal/errors"
	"github.com/allthrive/pageforge/internal/layout"
	"github.com/allthrive/pageforge/internal/notify"
	"github.com/allthrive/pageforge/internal/requestid"
	"github.com/allthrive/pageforge/internal/store"
)

type stubAnalyzer struct {
	result layout.AnalysisResult
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ layout.RepositorySnapshot, _ string) (layout.AnalysisResult, error) {
	s.calls++
	return s.result, s.err
}

type recordingSlack struct {
	channels []string
}

func (r *recordingSlack) PostMessage(channelID string, _ ...slack.MsgOption) (string, string, error) {
	r.channels = append(r.channels, channelID)
	return channelID, "1.0", nil
}

func testService(t *testing.T, analyzer Analyzer, slackAPI notify.PostAPI) *Service {
	t.Helper()
	logger := zerolog.Nop()

	st, err := store.New(filepath.Join(t.TempDir(), "svc.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	var notifier *notify.Notifier
	if slackAPI != nil {
		notifier = notify.NewWithAPI(slackAPI, "#showcase-pages", logger)
	}

	return NewService(ServiceConfig{
		GitHub:    fakeGitHubClient(t),
		Analyzer:  analyzer,
		Generator: layout.New(),
		Store:     st,
		Cache:     cache.New[string, *store.Layout](16, time.Minute),
		Notifier:  notifier,
		Retention: 100,
	}, logger)
}

func TestServiceUsesAnalysisResult(t *testing.T) {
	analyzer := &stubAnalyzer{result: layout.AnalysisResult{
		Description: "analyzed summary",
		ToolNames:   []string{"Claude"},
	}}
	svc := testService(t, analyzer, nil)

	rec, cached, err := svc.Generate(context.Background(), "acme", "demo", "full", false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, analyzer.calls)

	hero := rec.Document.Components[0]
	require.NotNil(t, hero.Hero)
	assert.Equal(t, "analyzed summary", hero.Hero.Subtitle)
}

func TestServiceDegradesWhenAnalysisFails(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("anthropic unavailable")}
	svc := testService(t, analyzer, nil)

	rec, _, err := svc.Generate(context.Background(), "acme", "demo", "full", false)
	require.NoError(t, err, "analysis failure must not fail generation")

	hero := rec.Document.Components[0]
	require.NotNil(t, hero.Hero)
	assert.Equal(t, "a demo project", hero.Hero.Subtitle, "falls back to repo description")
}

func TestServiceSkipsAnalysisInMinimalMode(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc := testService(t, analyzer, nil)

	_, _, err := svc.Generate(context.Background(), "acme", "demo", "minimal", false)
	require.NoError(t, err)
	assert.Zero(t, analyzer.calls)
}

func TestServiceNotifiesOnSuccessAndFailure(t *testing.T) {
	slackAPI := &recordingSlack{}
	svc := testService(t, nil, slackAPI)

	_, _, err := svc.Generate(context.Background(), "acme", "demo", "full", false)
	require.NoError(t, err)
	require.Len(t, slackAPI.channels, 1)

	_, _, err = svc.Generate(context.Background(), "acme", "gone", "full", false)
	require.Error(t, err)
	assert.Len(t, slackAPI.channels, 2)
}

func TestServiceCacheKeyIsCaseInsensitive(t *testing.T) {
	svc := testService(t, nil, nil)

	first, cached, err := svc.Generate(context.Background(), "acme", "demo", "full", false)
	require.NoError(t, err)
	require.False(t, cached)

	second, cached, err := svc.Generate(context.Background(), "Acme", "Demo", "full", false)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.ID, second.ID)
}

func TestServiceInvalidMode(t *testing.T) {
	svc := testService(t, nil, nil)

	_, _, err := svc.Generate(context.Background(), "acme", "demo", "speedy", false)
	assert.ErrorIs(t, err, pferrors.ErrInvalidInput)
}

func TestServiceLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	st, err := store.New(filepath.Join(t.TempDir(), "rid.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewService(ServiceConfig{
		GitHub:    fakeGitHubClient(t),
		Generator: layout.New(),
		Store:     st,
	}, logger)

	ctx := requestid.WithRequestID(context.Background(), "req-42")
	_, _, err = svc.Generate(ctx, "acme", "demo", "full", false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "req-42", "generation log carries the request id")
}

func TestServiceRetentionTrim(t *testing.T) {
	logger := zerolog.Nop()
	st, err := store.New(filepath.Join(t.TempDir(), "trim.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewService(ServiceConfig{
		GitHub:    fakeGitHubClient(t),
		Generator: layout.New(),
		Store:     st,
		Retention: 2,
	}, logger)

	for i := 0; i < 4; i++ {
		_, _, err := svc.Generate(context.Background(), "acme", "demo", "full", true)
		require.NoError(t, err)
	}

	layouts, err := st.ListLayouts(store.LayoutFilter{})
	require.NoError(t, err)
	assert.Len(t, layouts, 2)
}
