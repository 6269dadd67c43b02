package analysis

import (
	"fmt"
	"strings"

	"github.com/allthrive/pageforge/internal/layout"
)

const systemPrompt = `You are a technical copywriter for a developer portfolio platform.
Given repository metadata and a readme, respond with a single JSON object and nothing else.
Fields (all optional, omit what you cannot infer):
  "description": one-sentence project description, plain text
  "categories": array of category slugs
  "topics": array of topic strings
  "tool_names": array of AI/developer tools the project uses
  "hero_image": URL of a representative image from the readme, if any
  "hero_quote": a short punchy pull quote for the project
  "readme_blocks": array of content blocks mined from the readme, each
    {"type": "text"|"imageGrid"|"mermaid"|"list"|"code", "style": "...",
     "text": "...", "images": [{"url": "...", "alt": "..."}],
     "code": "...", "language": "...", "items": ["..."], "caption": "..."}
  "demo_urls": array of live demo URLs found in the readme
  "video_urls": array of demo video URLs
Do not wrap the JSON in markdown fences.`

// readmeLimit caps how much readme text is sent upstream.
const readmeLimit = 24000

func buildUserPrompt(repo layout.RepositorySnapshot, readme string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Repository: %s\n", repo.Name)
	if repo.Owner != "" {
		fmt.Fprintf(&sb, "Owner: %s\n", repo.Owner)
	}
	if repo.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", repo.Description)
	}
	if repo.Language != "" {
		fmt.Fprintf(&sb, "Primary language: %s\n", repo.Language)
	}
	if len(repo.Topics) > 0 {
		fmt.Fprintf(&sb, "Topics: %s\n", strings.Join(repo.Topics, ", "))
	}
	if repo.Homepage != "" {
		fmt.Fprintf(&sb, "Homepage: %s\n", repo.Homepage)
	}
	if readme != "" {
		if len(readme) > readmeLimit {
			readme = readme[:readmeLimit]
		}
		fmt.Fprintf(&sb, "\nReadme:\n%s\n", readme)
	}
	return sb.String()
}
