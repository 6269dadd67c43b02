package layout

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Truncation caps. Fixed design decisions, not configurable.
const (
	maxTechnologies = 12
	maxFeatures     = 6
	maxContributors = 10
)

// Default gradient pair for heroes without an image.
const (
	defaultGradientFrom = "#1a1a2e"
	defaultGradientTo   = "#16213e"
)

// untitledTitle is the hero title used when the snapshot arrives with an
// empty repository name. Supplying a name is the caller's job; the
// generator still returns a complete document.
const untitledTitle = "Untitled Project"

const defaultDiagramCaption = "System architecture diagram"

// IDSource produces component identifiers. It must be safe for
// concurrent use when the owning Generator is shared across goroutines.
type IDSource func() string

// Option configures a Generator.
type Option func(*Generator)

// WithIDSource replaces the uuid-backed default. Tests inject a
// deterministic sequence here.
func WithIDSource(ids IDSource) Option {
	return func(g *Generator) { g.ids = ids }
}

// WithClock replaces the wall clock used for the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// Generator builds layout documents. It holds no mutable state of its
// own; id and clock sources are threaded in explicitly.
type Generator struct {
	ids IDSource
	now func() time.Time
}

// New creates a Generator with uuid identifiers and UTC wall-clock time.
func New(opts ...Option) *Generator {
	g := &Generator{
		ids: func() string { return uuid.NewString() },
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate runs the full pipeline: hero and stats unconditionally, then
// prompt, tech stack, readme-block conversions, language breakdown,
// contributors, and links, each only when its source data is non-empty.
func (g *Generator) Generate(in Input) *Document {
	comps := []Component{
		g.buildHero(in),
		g.buildStats(in),
	}
	comps = appendIf(comps, g.buildPrompt(in))
	comps = appendIf(comps, g.buildTechStack(in))
	comps = append(comps, g.convertReadmeBlocks(in.Analysis.ReadmeBlocks)...)
	comps = appendIf(comps, g.buildLanguages(in))
	comps = appendIf(comps, g.buildContributors(in))
	comps = appendIf(comps, g.buildLinks(in))
	return g.assemble(in, comps)
}

// GenerateMinimal produces at most hero, stats, and tech stack. It
// shares the full pipeline's builders so the two outputs cannot drift.
func (g *Generator) GenerateMinimal(in Input) *Document {
	comps := []Component{
		g.buildHero(in),
		g.buildStats(in),
	}
	comps = appendIf(comps, g.buildTechStack(in))
	return g.assemble(in, comps)
}

func appendIf(comps []Component, c *Component) []Component {
	if c == nil {
		return comps
	}
	return append(comps, *c)
}

// assemble stamps ids and the running order onto the built components
// and wraps them in a document.
func (g *Generator) assemble(in Input, comps []Component) *Document {
	for i := range comps {
		comps[i].ID = g.ids()
		comps[i].Order = i
	}
	doc := &Document{
		Version:     Version,
		Source:      SourceGitHub,
		SourceURL:   in.Repository.URL,
		GeneratedAt: g.now(),
		Components:  comps,
		Meta: &Meta{
			RepoName: in.Repository.Name,
			Owner:    in.Repository.Owner,
			Language: in.Repository.Language,
		},
	}
	if in.Repository.Stars != nil {
		doc.Meta.Stars = *in.Repository.Stars
	}
	return doc
}

// displayTitle derives the hero title from the repository name with
// separator characters replaced by spaces.
func displayTitle(name string) string {
	title := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	if strings.TrimSpace(title) == "" {
		return untitledTitle
	}
	return title
}

func (g *Generator) buildHero(in Input) Component {
	repo := in.Repository
	hero := &HeroData{
		Title:    displayTitle(repo.Name),
		Subtitle: firstNonEmpty(in.Analysis.Description, repo.Description),
	}
	if in.Analysis.HeroImage != "" {
		hero.Variant = HeroVariantImage
		hero.BackgroundImage = in.Analysis.HeroImage
	} else {
		hero.Variant = HeroVariantGradient
		hero.GradientFrom = defaultGradientFrom
		hero.GradientTo = defaultGradientTo
	}
	if repo.URL != "" {
		hero.Actions = append(hero.Actions, HeroAction{Label: "View on GitHub", URL: repo.URL})
	}
	if repo.Homepage != "" {
		hero.Actions = append(hero.Actions, HeroAction{Label: "Live Demo", URL: repo.Homepage})
	}
	return Component{Kind: KindHero, Hero: hero}
}

func (g *Generator) buildStats(in Input) Component {
	repo := in.Repository
	items := []StatItem{}
	add := func(v *int, label, icon string) {
		if v == nil {
			return
		}
		items = append(items, StatItem{
			Label: label,
			Value: humanize.Comma(int64(*v)),
			Icon:  icon,
		})
	}
	add(repo.Stars, "Stars", "star")
	add(repo.Forks, "Forks", "fork")
	add(repo.Watchers, "Watchers", "eye")
	add(repo.OpenIssues, "Open Issues", "issue")
	return Component{Kind: KindStats, Stats: &StatsData{Items: items}}
}

func (g *Generator) buildPrompt(in Input) *Component {
	quote := in.Analysis.HeroQuote
	if quote == "" {
		return nil
	}
	return &Component{Kind: KindPrompt, Prompt: &PromptData{
		Quote:          quote,
		Attribution:    displayTitle(in.Repository.Name),
		AttributionURL: in.Repository.URL,
	}}
}

// buildTechStack assembles technologies in priority order: primary
// language, snapshot languages (deduplicated against the primary),
// frameworks, tools, then AI-detected tool names. Capped at 12.
func (g *Generator) buildTechStack(in Input) *Component {
	repo := in.Repository
	var techs []Technology
	add := func(name, category string) {
		if strings.TrimSpace(name) == "" {
			return
		}
		techs = append(techs, Technology{Name: name, Category: category})
	}

	add(repo.Language, TechCategoryLanguage)
	if repo.TechStack != nil {
		for _, lang := range repo.TechStack.Languages {
			if strings.EqualFold(lang, repo.Language) {
				continue
			}
			add(lang, TechCategoryLanguage)
		}
		for _, fw := range repo.TechStack.Frameworks {
			add(fw, TechCategoryFramework)
		}
		for _, tool := range repo.TechStack.Tools {
			add(tool, TechCategoryTool)
		}
	}
	for _, tool := range in.Analysis.ToolNames {
		add(tool, TechCategoryAITool)
	}

	if len(techs) == 0 {
		return nil
	}
	if len(techs) > maxTechnologies {
		techs = techs[:maxTechnologies]
	}
	return &Component{Kind: KindTechStack, TechStack: &TechStackData{Technologies: techs}}
}

// buildLanguages converts byte counts to integer percentages, rounded
// half-up per entry. Independent rounding means the percentages need not
// sum to exactly 100; that is accepted. Output is ordered by byte count
// descending (name ascending on ties) so generation stays deterministic.
func (g *Generator) buildLanguages(in Input) *Component {
	if len(in.Languages) == 0 {
		return nil
	}
	var total int64
	for _, b := range in.Languages {
		total += b
	}
	if total <= 0 {
		return nil
	}

	names := make([]string, 0, len(in.Languages))
	for name := range in.Languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		bi, bj := in.Languages[names[i]], in.Languages[names[j]]
		if bi != bj {
			return bi > bj
		}
		return names[i] < names[j]
	})

	stats := make([]LanguageStat, 0, len(names))
	for _, name := range names {
		pct := int(math.Floor(float64(in.Languages[name])*100/float64(total) + 0.5))
		stats = append(stats, LanguageStat{
			Name:    name,
			Percent: pct,
			Color:   ColorFor(name),
		})
	}
	return &Component{Kind: KindLanguages, Languages: &LanguagesData{Languages: stats}}
}

// buildContributors keeps the caller's ordering; any ranking is the
// caller's responsibility. Truncated to the first 10.
func (g *Generator) buildContributors(in Input) *Component {
	if len(in.Contributors) == 0 {
		return nil
	}
	contribs := in.Contributors
	if len(contribs) > maxContributors {
		contribs = contribs[:maxContributors]
	}
	cards := make([]ContributorCard, 0, len(contribs))
	for _, c := range contribs {
		cards = append(cards, ContributorCard{
			Login:         c.Login,
			AvatarURL:     c.AvatarURL,
			Contributions: c.Contributions,
			ProfileURL:    c.ProfileURL,
		})
	}
	return &Component{Kind: KindContributors, Contributors: &ContributorsData{Contributors: cards}}
}

// buildLinks collects the repository URL, the homepage, and analysis
// demo URLs. A demo URL exactly equal to the homepage is skipped; no
// further deduplication is performed. Demo labels use the 1-based
// position within the demo-url list.
func (g *Generator) buildLinks(in Input) *Component {
	repo := in.Repository
	if repo.URL == "" && repo.Homepage == "" && len(in.Analysis.DemoURLs) == 0 {
		return nil
	}
	var links []Link
	if repo.URL != "" {
		links = append(links, Link{Label: "GitHub Repository", URL: repo.URL, Type: LinkTypeGitHub})
	}
	if repo.Homepage != "" {
		links = append(links, Link{Label: "Live Demo", URL: repo.Homepage, Type: LinkTypeDemo})
	}
	for i, u := range in.Analysis.DemoURLs {
		if u == "" || u == repo.Homepage {
			continue
		}
		links = append(links, Link{
			Label: fmt.Sprintf("Demo %d", i+1),
			URL:   u,
			Type:  LinkTypeDemo,
		})
	}
	if len(links) == 0 {
		return nil
	}
	return &Component{Kind: KindLinks, Links: &LinksData{Links: links}}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
