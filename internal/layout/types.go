// Package layout turns a GitHub repository snapshot plus its AI analysis
// into a showcase-page layout document: an ordered list of typed page
// components consumed by the rendering frontend.
package layout

import (
	"fmt"
	"time"
)

// Version is the layout document format version.
const Version = "1.0"

// SourceGitHub tags documents produced from GitHub repositories.
const SourceGitHub = "github"

// Kind identifies the shape of a component's payload.
type Kind string

const (
	KindHero         Kind = "hero"
	KindStats        Kind = "stats"
	KindFeatureGrid  Kind = "feature-grid"
	KindTechStack    Kind = "tech-stack"
	KindText         Kind = "text"
	KindLinks        Kind = "links"
	KindImageGallery Kind = "image-gallery"
	KindPrompt       Kind = "prompt"
	KindDiagram      Kind = "diagram"
	KindLanguages    Kind = "github-languages"
	KindContributors Kind = "github-contributors"
)

// Kinds lists every component kind the generator can emit.
var Kinds = []Kind{
	KindHero, KindStats, KindFeatureGrid, KindTechStack, KindText,
	KindLinks, KindImageGallery, KindPrompt, KindDiagram,
	KindLanguages, KindContributors,
}

// HeroVariant selects the hero background treatment.
type HeroVariant string

const (
	HeroVariantImage    HeroVariant = "image"
	HeroVariantGradient HeroVariant = "gradient"
)

// HeroAction is a call-to-action link on the hero.
type HeroAction struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// HeroData is the payload for KindHero.
type HeroData struct {
	Title           string       `json:"title"`
	Subtitle        string       `json:"subtitle"`
	Variant         HeroVariant  `json:"variant"`
	BackgroundImage string       `json:"background_image,omitempty"`
	GradientFrom    string       `json:"gradient_from,omitempty"`
	GradientTo      string       `json:"gradient_to,omitempty"`
	Actions         []HeroAction `json:"actions,omitempty"`
}

// StatItem is one formatted counter on the stats strip.
type StatItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// StatsData is the payload for KindStats. Items may be empty; the
// component itself is still emitted so the renderer keeps its slot.
type StatsData struct {
	Items []StatItem `json:"items"`
}

// Feature is one cell of a feature grid.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FeatureGridData is the payload for KindFeatureGrid.
type FeatureGridData struct {
	Features []Feature `json:"features"`
	Columns  int       `json:"columns"`
}

// Technology categories used by the tech-stack component.
const (
	TechCategoryLanguage  = "language"
	TechCategoryFramework = "framework"
	TechCategoryTool      = "tool"
	TechCategoryAITool    = "ai-tool"
)

// Technology is one entry of the tech-stack component.
type Technology struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// TechStackData is the payload for KindTechStack.
type TechStackData struct {
	Technologies []Technology `json:"technologies"`
}

// TextData is the payload for KindText.
type TextData struct {
	Content string `json:"content"`
	Variant string `json:"variant"`
}

// TextVariantProse is the only text variant the generator emits today.
const TextVariantProse = "prose"

// Link types used by the links component.
const (
	LinkTypeGitHub = "github"
	LinkTypeDemo   = "demo"
)

// Link is one entry of the links component.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// LinksData is the payload for KindLinks.
type LinksData struct {
	Links []Link `json:"links"`
}

// GalleryImage is one image in an image gallery.
type GalleryImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// ImageGalleryData is the payload for KindImageGallery.
type ImageGalleryData struct {
	Images  []GalleryImage `json:"images"`
	Columns int            `json:"columns"`
}

// PromptData is the payload for KindPrompt (pull quote).
type PromptData struct {
	Quote          string `json:"quote"`
	Attribution    string `json:"attribution"`
	AttributionURL string `json:"attribution_url,omitempty"`
}

// DiagramData is the payload for KindDiagram. Code is mermaid source.
type DiagramData struct {
	Title   string `json:"title"`
	Code    string `json:"code"`
	Caption string `json:"caption"`
}

// LanguageStat is one language share in the breakdown.
type LanguageStat struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
	Color   string `json:"color"`
}

// LanguagesData is the payload for KindLanguages.
type LanguagesData struct {
	Languages []LanguageStat `json:"languages"`
}

// ContributorCard is one contributor entry.
type ContributorCard struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	Contributions int    `json:"contributions"`
	ProfileURL    string `json:"profile_url"`
}

// ContributorsData is the payload for KindContributors.
type ContributorsData struct {
	Contributors []ContributorCard `json:"contributors"`
}

// Component is one typed unit of a layout document. Kind selects which
// payload pointer is set; exactly one is non-nil and it matches Kind.
type Component struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Kind  Kind   `json:"kind"`

	Hero         *HeroData         `json:"hero,omitempty"`
	Stats        *StatsData        `json:"stats,omitempty"`
	FeatureGrid  *FeatureGridData  `json:"feature_grid,omitempty"`
	TechStack    *TechStackData    `json:"tech_stack,omitempty"`
	Text         *TextData         `json:"text,omitempty"`
	Links        *LinksData        `json:"links,omitempty"`
	ImageGallery *ImageGalleryData `json:"image_gallery,omitempty"`
	Prompt       *PromptData       `json:"prompt,omitempty"`
	Diagram      *DiagramData      `json:"diagram,omitempty"`
	Languages    *LanguagesData    `json:"languages,omitempty"`
	Contributors *ContributorsData `json:"contributors,omitempty"`
}

// payloads returns the set payload pointers paired with the kind each
// one belongs to.
func (c *Component) payloads() map[Kind]bool {
	set := map[Kind]bool{}
	if c.Hero != nil {
		set[KindHero] = true
	}
	if c.Stats != nil {
		set[KindStats] = true
	}
	if c.FeatureGrid != nil {
		set[KindFeatureGrid] = true
	}
	if c.TechStack != nil {
		set[KindTechStack] = true
	}
	if c.Text != nil {
		set[KindText] = true
	}
	if c.Links != nil {
		set[KindLinks] = true
	}
	if c.ImageGallery != nil {
		set[KindImageGallery] = true
	}
	if c.Prompt != nil {
		set[KindPrompt] = true
	}
	if c.Diagram != nil {
		set[KindDiagram] = true
	}
	if c.Languages != nil {
		set[KindLanguages] = true
	}
	if c.Contributors != nil {
		set[KindContributors] = true
	}
	return set
}

// Validate checks the component carries exactly one payload and that it
// matches Kind.
func (c *Component) Validate() error {
	known := false
	for _, k := range Kinds {
		if c.Kind == k {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("component %s: unknown kind %q", c.ID, c.Kind)
	}
	set := c.payloads()
	if len(set) != 1 {
		return fmt.Errorf("component %s: expected exactly 1 payload, found %d", c.ID, len(set))
	}
	if !set[c.Kind] {
		return fmt.Errorf("component %s: payload does not match kind %q", c.ID, c.Kind)
	}
	return nil
}

// Meta echoes a subset of the repository snapshot for provenance.
type Meta struct {
	RepoName string `json:"repo_name,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Language string `json:"language,omitempty"`
	Stars    int    `json:"stars,omitempty"`
}

// Document is the generator's output: a versioned, ordered list of page
// components plus provenance metadata. Constructed fresh on every
// generation call and never mutated after return.
type Document struct {
	Version     string      `json:"version"`
	Source      string      `json:"source"`
	SourceURL   string      `json:"source_url,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
	Components  []Component `json:"components"`
	Meta        *Meta       `json:"meta,omitempty"`
}

// Validate checks document-level invariants: at least hero and stats
// present, gap-free zero-based ordering, and well-formed components.
func (d *Document) Validate() error {
	if len(d.Components) < 2 {
		return fmt.Errorf("document has %d components, need at least hero and stats", len(d.Components))
	}
	if d.Components[0].Kind != KindHero {
		return fmt.Errorf("first component is %q, want %q", d.Components[0].Kind, KindHero)
	}
	if d.Components[1].Kind != KindStats {
		return fmt.Errorf("second component is %q, want %q", d.Components[1].Kind, KindStats)
	}
	for i := range d.Components {
		c := &d.Components[i]
		if c.Order != i {
			return fmt.Errorf("component %d has order %d", i, c.Order)
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
