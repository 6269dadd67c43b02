package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult_PlainJSON(t *testing.T) {
	result, err := ParseResult(`{"description": "A tool.", "hero_quote": "Fast.", "tool_names": ["Copilot"]}`)
	require.NoError(t, err)
	assert.Equal(t, "A tool.", result.Description)
	assert.Equal(t, "Fast.", result.HeroQuote)
	assert.Equal(t, []string{"Copilot"}, result.ToolNames)
}

func TestParseResult_FencedJSON(t *testing.T) {
	text := "```json\n{\"description\": \"Fenced.\"}\n```"
	result, err := ParseResult(text)
	require.NoError(t, err)
	assert.Equal(t, "Fenced.", result.Description)
}

func TestParseResult_ProseAroundJSON(t *testing.T) {
	text := "Here is the analysis:\n{\"hero_quote\": \"Quote.\"}\nHope this helps!"
	result, err := ParseResult(text)
	require.NoError(t, err)
	assert.Equal(t, "Quote.", result.HeroQuote)
}

func TestParseResult_ReadmeBlocks(t *testing.T) {
	text := `{"readme_blocks": [
		{"type": "text", "style": "body", "text": "prose"},
		{"type": "", "text": "untyped"},
		{"type": "hologram", "text": "future kind"},
		{"type": "list", "items": ["Fast: yes"]}
	]}`
	result, err := ParseResult(text)
	require.NoError(t, err)
	// Untyped blocks dropped; unknown types kept for the generator to skip.
	require.Len(t, result.ReadmeBlocks, 3)
	assert.Equal(t, "text", result.ReadmeBlocks[0].Type)
	assert.Equal(t, "hologram", result.ReadmeBlocks[1].Type)
	assert.Equal(t, "list", result.ReadmeBlocks[2].Type)
}

func TestParseResult_NoJSON(t *testing.T) {
	_, err := ParseResult("I could not analyze this repository.")
	require.Error(t, err)
}

func TestParseResult_MalformedJSON(t *testing.T) {
	_, err := ParseResult(`{"description": `)
	require.Error(t, err)
}
