package layout

import "testing"

func TestConvertBlock_TextProse(t *testing.T) {
	c := convertBlock(ReadmeBlock{Type: "text", Style: "body", Text: "hello"})
	if c == nil {
		t.Fatal("expected a component")
	}
	if c.Kind != KindText {
		t.Fatalf("kind = %q", c.Kind)
	}
	if c.Text.Content != "hello" || c.Text.Variant != TextVariantProse {
		t.Fatalf("got %+v", c.Text)
	}
}

func TestConvertBlock_HeadingDropped(t *testing.T) {
	if c := convertBlock(ReadmeBlock{Type: "text", Style: "heading", Text: "Section"}); c != nil {
		t.Fatalf("heading text should produce no component, got %+v", c)
	}
}

func TestConvertBlock_EmptyText(t *testing.T) {
	if c := convertBlock(ReadmeBlock{Type: "text", Style: "body", Text: "  "}); c != nil {
		t.Fatal("blank text should produce no component")
	}
}

func TestConvertBlock_ImageGridColumns(t *testing.T) {
	two := convertBlock(ReadmeBlock{Type: "imageGrid", Images: []BlockImage{
		{URL: "a.png"}, {URL: "b.png"},
	}})
	if two == nil || two.ImageGallery.Columns != 2 {
		t.Fatalf("2 images should use 2 columns, got %+v", two)
	}

	three := convertBlock(ReadmeBlock{Type: "imageGrid", Images: []BlockImage{
		{URL: "a.png"}, {URL: "b.png"}, {URL: "c.png"},
	}})
	if three == nil || three.ImageGallery.Columns != 3 {
		t.Fatalf("3 images should use 3 columns, got %+v", three)
	}

	if c := convertBlock(ReadmeBlock{Type: "imageGrid"}); c != nil {
		t.Fatal("empty grid should produce no component")
	}
}

func TestConvertBlock_Mermaid(t *testing.T) {
	c := convertBlock(ReadmeBlock{Type: "mermaid", Code: "graph TD; A-->B"})
	if c == nil || c.Kind != KindDiagram {
		t.Fatalf("got %+v", c)
	}
	if c.Diagram.Title != "Architecture" {
		t.Fatalf("title = %q", c.Diagram.Title)
	}
	if c.Diagram.Caption != defaultDiagramCaption {
		t.Fatalf("caption = %q", c.Diagram.Caption)
	}

	captioned := convertBlock(ReadmeBlock{Type: "mermaid", Code: "graph TD", Caption: "Flow"})
	if captioned.Diagram.Caption != "Flow" {
		t.Fatalf("caption = %q", captioned.Diagram.Caption)
	}

	if c := convertBlock(ReadmeBlock{Type: "mermaid", Code: " "}); c != nil {
		t.Fatal("blank mermaid should produce no component")
	}
}

func TestConvertBlock_ListSplitsOnFirstColon(t *testing.T) {
	c := convertBlock(ReadmeBlock{Type: "list", Items: []string{"Fast: low latency", "Simple"}})
	if c == nil || c.Kind != KindFeatureGrid {
		t.Fatalf("got %+v", c)
	}
	fg := c.FeatureGrid
	if len(fg.Features) != 2 {
		t.Fatalf("features = %d", len(fg.Features))
	}
	if fg.Features[0] != (Feature{Title: "Fast", Description: "low latency"}) {
		t.Fatalf("got %+v", fg.Features[0])
	}
	if fg.Features[1] != (Feature{Title: "Simple", Description: ""}) {
		t.Fatalf("got %+v", fg.Features[1])
	}
	if fg.Columns != 3 {
		t.Fatalf("columns = %d", fg.Columns)
	}
}

func TestConvertBlock_ListTruncationAndColumns(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	c := convertBlock(ReadmeBlock{Type: "list", Items: items})
	if len(c.FeatureGrid.Features) != maxFeatures {
		t.Fatalf("features = %d", len(c.FeatureGrid.Features))
	}
	if c.FeatureGrid.Columns != 2 {
		t.Fatalf("columns = %d", c.FeatureGrid.Columns)
	}
}

func TestConvertBlock_CodeFenced(t *testing.T) {
	c := convertBlock(ReadmeBlock{Type: "code", Code: "fmt.Println(1)", Language: "go"})
	if c == nil || c.Kind != KindText {
		t.Fatalf("got %+v", c)
	}
	want := "```go\nfmt.Println(1)\n```"
	if c.Text.Content != want {
		t.Fatalf("content = %q", c.Text.Content)
	}
}

func TestConvertBlock_UnknownSkipped(t *testing.T) {
	if c := convertBlock(ReadmeBlock{Type: "hologram", Text: "future"}); c != nil {
		t.Fatalf("unknown block type should be skipped, got %+v", c)
	}
}

func TestConvertReadmeBlocks_PreservesOrder(t *testing.T) {
	g := New()
	comps := g.convertReadmeBlocks([]ReadmeBlock{
		{Type: "text", Text: "one"},
		{Type: "hologram"},
		{Type: "list", Items: []string{"x"}},
		{Type: "code", Code: "y"},
	})
	if len(comps) != 3 {
		t.Fatalf("components = %d", len(comps))
	}
	wantKinds := []Kind{KindText, KindFeatureGrid, KindText}
	for i, k := range wantKinds {
		if comps[i].Kind != k {
			t.Fatalf("comps[%d].Kind = %q, want %q", i, comps[i].Kind, k)
		}
	}
}
