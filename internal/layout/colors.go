package layout

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed colors.yaml
var colorsYAML []byte

// FallbackColor is used for languages without a palette entry.
const FallbackColor = "#8B949E"

// languageColors is loaded once from the embedded palette and never
// mutated afterwards.
var languageColors = mustLoadColors(colorsYAML)

func mustLoadColors(raw []byte) map[string]string {
	colors := map[string]string{}
	if err := yaml.Unmarshal(raw, &colors); err != nil {
		panic(fmt.Sprintf("layout: invalid embedded color palette: %v", err))
	}
	return colors
}

// ColorFor returns the display color for a language name, or
// FallbackColor when the palette has no entry for it.
func ColorFor(language string) string {
	if c, ok := languageColors[language]; ok {
		return c
	}
	return FallbackColor
}
