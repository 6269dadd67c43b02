package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentValidate(t *testing.T) {
	ok := Component{ID: "a", Kind: KindText, Text: &TextData{Content: "x", Variant: TextVariantProse}}
	assert.NoError(t, ok.Validate())

	wrongKind := Component{ID: "b", Kind: KindHero, Text: &TextData{}}
	assert.Error(t, wrongKind.Validate())

	twoPayloads := Component{ID: "c", Kind: KindText, Text: &TextData{}, Hero: &HeroData{}}
	assert.Error(t, twoPayloads.Validate())

	none := Component{ID: "d", Kind: KindText}
	assert.Error(t, none.Validate())

	unknown := Component{ID: "e", Kind: Kind("widget"), Text: &TextData{}}
	assert.Error(t, unknown.Validate())
}

func TestDocumentValidate(t *testing.T) {
	doc := testGenerator().Generate(richInput())
	require.NoError(t, doc.Validate())

	// A gap in the order sequence is rejected.
	doc.Components[2].Order = 5
	assert.Error(t, doc.Validate())
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := testGenerator().Generate(richInput())

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(raw, &back))
	require.NoError(t, back.Validate())
	assert.Equal(t, doc.Version, back.Version)
	assert.Equal(t, len(doc.Components), len(back.Components))
	assert.Equal(t, doc.Components[0].Hero, back.Components[0].Hero)
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "#00ADD8", ColorFor("Go"))
	assert.Equal(t, "#F34B7D", ColorFor("C++"))
	assert.Equal(t, FallbackColor, ColorFor("Whitespace"))
}
