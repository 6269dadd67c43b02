package ghsnap

import (
	"context"
	"errors"
	"fmt"
	"time"

	gh "github.com/google/go-github/v60/github"

	pferrors "github.com/allthrive/pageforge/internal/errors"
	"github.com/allthrive/pageforge/internal/layout"
	"github.com/allthrive/pageforge/internal/retry"
)

// Contributor fetch cap; the generator truncates to 10 anyway.
const contributorPageSize = 30

// Snapshot bundles everything the layout generator needs from GitHub.
type Snapshot struct {
	Repository   layout.RepositorySnapshot
	Languages    map[string]int64
	Contributors []layout.Contributor
	Readme       string
}

// FetchSnapshot retrieves repository metadata, languages, contributors,
// and the readme for owner/repo. Metadata is required; languages,
// contributors, and readme are best-effort — failures there degrade to
// absent data rather than failing the snapshot.
func (c *Client) FetchSnapshot(ctx context.Context, owner, repo string) (*Snapshot, error) {
	api, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	var repository *gh.Repository
	err = retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		r, resp, err := api.Repositories.Get(ctx, owner, repo)
		if err != nil {
			return mapErr(resp, err, "fetching repository")
		}
		repository = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Repository: mapRepository(repository)}

	err = retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		langs, resp, err := api.Repositories.ListLanguages(ctx, owner, repo)
		if err != nil {
			return mapErr(resp, err, "listing languages")
		}
		if len(langs) > 0 {
			snap.Languages = make(map[string]int64, len(langs))
			for name, bytes := range langs {
				snap.Languages[name] = int64(bytes)
			}
		}
		return nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("repo", owner+"/"+repo).Msg("language fetch failed, continuing without")
	}

	err = retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		contribs, resp, err := api.Repositories.ListContributors(ctx, owner, repo,
			&gh.ListContributorsOptions{ListOptions: gh.ListOptions{PerPage: contributorPageSize}})
		if err != nil {
			return mapErr(resp, err, "listing contributors")
		}
		snap.Contributors = mapContributors(contribs)
		return nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("repo", owner+"/"+repo).Msg("contributor fetch failed, continuing without")
	}

	readme, err := c.fetchReadme(ctx, api, owner, repo)
	if err != nil {
		if !pferrors.IsNotFound(err) {
			c.logger.Warn().Err(err).Str("repo", owner+"/"+repo).Msg("readme fetch failed, continuing without")
		}
	} else {
		snap.Readme = readme
	}

	return snap, nil
}

func (c *Client) fetchReadme(ctx context.Context, api *gh.Client, owner, repo string) (string, error) {
	var content string
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		readme, resp, err := api.Repositories.GetReadme(ctx, owner, repo, nil)
		if err != nil {
			return mapErr(resp, err, "fetching readme")
		}
		decoded, err := readme.GetContent()
		if err != nil {
			return fmt.Errorf("decoding readme: %w", err)
		}
		content = decoded
		return nil
	})
	return content, err
}

func mapRepository(r *gh.Repository) layout.RepositorySnapshot {
	snap := layout.RepositorySnapshot{
		Name:          r.GetName(),
		Description:   r.GetDescription(),
		Language:      r.GetLanguage(),
		Topics:        r.Topics,
		Owner:         r.GetOwner().GetLogin(),
		URL:           r.GetHTMLURL(),
		Homepage:      r.GetHomepage(),
		DefaultBranch: r.GetDefaultBranch(),
		CreatedAt:     formatTimestamp(r.CreatedAt),
		UpdatedAt:     formatTimestamp(r.UpdatedAt),
		PushedAt:      formatTimestamp(r.PushedAt),
	}
	if r.StargazersCount != nil {
		snap.Stars = r.StargazersCount
	}
	if r.ForksCount != nil {
		snap.Forks = r.ForksCount
	}
	if r.OpenIssuesCount != nil {
		snap.OpenIssues = r.OpenIssuesCount
	}
	// WatchersCount mirrors stars on this API; SubscribersCount is the
	// real watcher number.
	if r.SubscribersCount != nil {
		snap.Watchers = r.SubscribersCount
	}
	if lic := r.GetLicense(); lic != nil {
		snap.License = &layout.License{Name: lic.GetName(), SPDXID: lic.GetSPDXID()}
	}
	return snap
}

func mapContributors(contribs []*gh.Contributor) []layout.Contributor {
	if len(contribs) == 0 {
		return nil
	}
	out := make([]layout.Contributor, 0, len(contribs))
	for _, c := range contribs {
		if c.GetLogin() == "" {
			continue
		}
		out = append(out, layout.Contributor{
			Login:         c.GetLogin(),
			AvatarURL:     c.GetAvatarURL(),
			Contributions: c.GetContributions(),
			ProfileURL:    c.GetHTMLURL(),
		})
	}
	return out
}

func formatTimestamp(ts *gh.Timestamp) string {
	if ts == nil || ts.Time.IsZero() {
		return ""
	}
	return ts.Time.UTC().Format(time.RFC3339)
}

// mapErr converts go-github errors into the shared taxonomy so the
// retry policy can classify them.
func mapErr(resp *gh.Response, err error, action string) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		status = 429
	}
	return &pferrors.APIError{
		Service:    "github",
		StatusCode: status,
		Message:    action,
		Err:        err,
	}
}
