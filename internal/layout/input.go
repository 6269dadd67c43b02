package layout

// License describes a repository license.
type License struct {
	Name   string `json:"name,omitempty"`
	SPDXID string `json:"spdx_id,omitempty"`
}

// TreeEntry is one file-tree entry of the snapshot. Kind is "file" or
// "dir" as reported by the upstream provider.
type TreeEntry struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// TechStackSummary lists technologies detected upstream.
type TechStackSummary struct {
	Languages  []string `json:"languages,omitempty"`
	Frameworks []string `json:"frameworks,omitempty"`
	Tools      []string `json:"tools,omitempty"`
}

// RepositorySnapshot is the read-only upstream metadata about a source
// repository. Name is the only required field; everything else is
// treated as absent when zero.
type RepositorySnapshot struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language,omitempty"`
	Topics      []string `json:"topics,omitempty"`

	Stars      *int `json:"stars,omitempty"`
	Forks      *int `json:"forks,omitempty"`
	OpenIssues *int `json:"open_issues,omitempty"`
	Watchers   *int `json:"watchers,omitempty"`

	Owner    string `json:"owner,omitempty"`
	URL      string `json:"url,omitempty"`
	Homepage string `json:"homepage,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	PushedAt  string `json:"pushed_at,omitempty"`

	DefaultBranch string            `json:"default_branch,omitempty"`
	License       *License          `json:"license,omitempty"`
	Tree          []TreeEntry       `json:"tree,omitempty"`
	TechStack     *TechStackSummary `json:"tech_stack,omitempty"`
}

// ReadmeBlock is a loosely typed content unit carried over from the
// legacy readme parser. Type selects which of the remaining fields are
// meaningful; unrecognized types are skipped during generation.
type ReadmeBlock struct {
	Type     string       `json:"type"` // text, imageGrid, mermaid, list, code
	Style    string       `json:"style,omitempty"`
	Text     string       `json:"text,omitempty"`
	Images   []BlockImage `json:"images,omitempty"`
	Code     string       `json:"code,omitempty"`
	Language string       `json:"language,omitempty"`
	Items    []string     `json:"items,omitempty"`
	Caption  string       `json:"caption,omitempty"`
}

// BlockImage is one image reference inside an imageGrid block.
type BlockImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// AnalysisResult is AI-derived enrichment data about a repository. Every
// field is optional; an absent field contributes nothing to the output.
type AnalysisResult struct {
	Description      string        `json:"description,omitempty"`
	Categories       []string      `json:"categories,omitempty"`
	Topics           []string      `json:"topics,omitempty"`
	ToolNames        []string      `json:"tool_names,omitempty"`
	HeroImage        string        `json:"hero_image,omitempty"`
	HeroQuote        string        `json:"hero_quote,omitempty"`
	ReadmeBlocks     []ReadmeBlock `json:"readme_blocks,omitempty"`
	Diagrams         []string      `json:"diagrams,omitempty"`
	DemoURLs         []string      `json:"demo_urls,omitempty"`
	VideoURLs        []string      `json:"video_urls,omitempty"`
	GeneratedDiagram string        `json:"generated_diagram,omitempty"`
}

// Contributor is one repository contributor, in the caller's order.
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Contributions int    `json:"contributions"`
	ProfileURL    string `json:"profile_url,omitempty"`
}

// Input is the full tuple one generation call consumes.
type Input struct {
	Repository   RepositorySnapshot `json:"repository"`
	Analysis     AnalysisResult     `json:"analysis"`
	Contributors []Contributor      `json:"contributors,omitempty"`
	Languages    map[string]int64   `json:"languages,omitempty"`
}
