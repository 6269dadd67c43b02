package layout

import "strings"

// convertReadmeBlocks maps legacy readme blocks onto components,
// preserving the original block order. Each block yields zero or one
// component; unknown block types are skipped so new upstream kinds never
// break generation.
func (g *Generator) convertReadmeBlocks(blocks []ReadmeBlock) []Component {
	var comps []Component
	for _, b := range blocks {
		if c := convertBlock(b); c != nil {
			comps = append(comps, *c)
		}
	}
	return comps
}

func convertBlock(b ReadmeBlock) *Component {
	switch b.Type {
	case "text":
		return convertTextBlock(b)
	case "imageGrid":
		return convertImageGridBlock(b)
	case "mermaid":
		return convertMermaidBlock(b)
	case "list":
		return convertListBlock(b)
	case "code":
		return convertCodeBlock(b)
	default:
		return nil
	}
}

// Heading-styled text is dropped: section titling is re-derived by the
// renderer and must not be duplicated here.
func convertTextBlock(b ReadmeBlock) *Component {
	if b.Style == "heading" || strings.TrimSpace(b.Text) == "" {
		return nil
	}
	return &Component{Kind: KindText, Text: &TextData{
		Content: b.Text,
		Variant: TextVariantProse,
	}}
}

func convertImageGridBlock(b ReadmeBlock) *Component {
	if len(b.Images) == 0 {
		return nil
	}
	images := make([]GalleryImage, 0, len(b.Images))
	for _, img := range b.Images {
		images = append(images, GalleryImage{URL: img.URL, Alt: img.Alt})
	}
	columns := 3
	if len(images) <= 2 {
		columns = 2
	}
	return &Component{Kind: KindImageGallery, ImageGallery: &ImageGalleryData{
		Images:  images,
		Columns: columns,
	}}
}

func convertMermaidBlock(b ReadmeBlock) *Component {
	if strings.TrimSpace(b.Code) == "" {
		return nil
	}
	caption := b.Caption
	if caption == "" {
		caption = defaultDiagramCaption
	}
	return &Component{Kind: KindDiagram, Diagram: &DiagramData{
		Title:   "Architecture",
		Code:    b.Code,
		Caption: caption,
	}}
}

// convertListBlock splits each item on the first colon into a
// title/description pair. Items without a colon keep the whole string as
// the title.
func convertListBlock(b ReadmeBlock) *Component {
	if len(b.Items) == 0 {
		return nil
	}
	items := b.Items
	if len(items) > maxFeatures {
		items = items[:maxFeatures]
	}
	features := make([]Feature, 0, len(items))
	for _, item := range items {
		title, desc, found := strings.Cut(item, ":")
		if !found {
			features = append(features, Feature{Title: item})
			continue
		}
		features = append(features, Feature{
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(desc),
		})
	}
	columns := 2
	if len(features) <= 3 {
		columns = 3
	}
	return &Component{Kind: KindFeatureGrid, FeatureGrid: &FeatureGridData{
		Features: features,
		Columns:  columns,
	}}
}

func convertCodeBlock(b ReadmeBlock) *Component {
	if strings.TrimSpace(b.Code) == "" {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("```")
	sb.WriteString(b.Language)
	sb.WriteString("\n")
	sb.WriteString(b.Code)
	sb.WriteString("\n```")
	return &Component{Kind: KindText, Text: &TextData{
		Content: sb.String(),
		Variant: TextVariantProse,
	}}
}
