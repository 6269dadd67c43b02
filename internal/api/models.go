package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/allthrive/pageforge/internal/layout"
)

// GenerateRequest is the body for POST /api/v1/layouts.
type GenerateRequest struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Mode  string `json:"mode,omitempty"`  // "full" (default) or "minimal"
	Force bool   `json:"force,omitempty"` // bypass the layout cache
}

// PreviewRequest is the body for POST /api/v1/layouts/preview. The
// caller supplies the generation input directly; nothing is fetched or
// persisted.
type PreviewRequest struct {
	Input layout.Input `json:"input"`
	Mode  string       `json:"mode,omitempty"`
}

// LayoutResponse is the representation returned for a stored layout.
type LayoutResponse struct {
	ID             string           `json:"id"`
	Owner          string           `json:"owner"`
	Repo           string           `json:"repo"`
	SourceURL      string           `json:"source_url,omitempty"`
	Version        string           `json:"version"`
	Mode           string           `json:"mode"`
	ComponentCount int              `json:"component_count"`
	CreatedAt      int64            `json:"created_at"`
	Cached         bool             `json:"cached,omitempty"`
	Document       *layout.Document `json:"document,omitempty"`
}

// LayoutListResponse wraps a page of layout summaries.
type LayoutListResponse struct {
	Layouts []LayoutResponse `json:"layouts"`
	Count   int              `json:"count"`
}

// PreviewResponse wraps an unpersisted document.
type PreviewResponse struct {
	Document *layout.Document `json:"document"`
}

// ProblemDetail is an RFC 7807 style error body.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func problemResponse(c *fiber.Ctx, status int, errType, title, detail string) error {
	return c.Status(status).JSON(ProblemDetail{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Path(),
	})
}
