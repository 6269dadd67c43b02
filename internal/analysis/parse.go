package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/allthrive/pageforge/internal/layout"
)

// ParseResult extracts an AnalysisResult from model output. Models
// sometimes fence the JSON or prepend prose despite instructions, so
// the payload is located before unmarshalling. A payload that fails to
// parse entirely returns a zero result plus the error; generation
// proceeds with whatever was recovered.
func ParseResult(text string) (layout.AnalysisResult, error) {
	payload := extractJSON(text)
	if payload == "" {
		return layout.AnalysisResult{}, fmt.Errorf("no JSON object in model output")
	}

	var result layout.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return layout.AnalysisResult{}, fmt.Errorf("decoding analysis payload: %w", err)
	}
	result.ReadmeBlocks = sanitizeBlocks(result.ReadmeBlocks)
	return result, nil
}

// extractJSON returns the outermost {...} span, stripping markdown
// fences if present.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// sanitizeBlocks drops blocks with no type tag. Unknown types are kept;
// the generator skips them itself.
func sanitizeBlocks(blocks []layout.ReadmeBlock) []layout.ReadmeBlock {
	if len(blocks) == 0 {
		return nil
	}
	out := blocks[:0]
	for _, b := range blocks {
		if strings.TrimSpace(b.Type) == "" {
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
