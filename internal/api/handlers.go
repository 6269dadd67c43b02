package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	pferrors "github.com/allthrive/pageforge/internal/errors"
	"github.com/allthrive/pageforge/internal/health"
	"github.com/allthrive/pageforge/internal/store"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	service *Service
	checker *health.Checker
	logger  zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(service *Service, checker *health.Checker, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		checker: checker,
		logger:  logger.With().Str("component", "handlers").Logger(),
	}
}

func layoutResponse(rec *store.Layout, cached, includeDocument bool) LayoutResponse {
	resp := LayoutResponse{
		ID:             rec.ID,
		Owner:          rec.Owner,
		Repo:           rec.Repo,
		SourceURL:      rec.SourceURL,
		Version:        rec.Version,
		Mode:           rec.Mode,
		ComponentCount: rec.ComponentCount,
		CreatedAt:      rec.CreatedAt,
		Cached:         cached,
	}
	if includeDocument {
		resp.Document = rec.Document
	}
	return resp
}

func (h *Handlers) serviceError(c *fiber.Ctx, err error) error {
	var apiErr *pferrors.APIError
	switch {
	case errors.Is(err, pferrors.ErrInvalidInput):
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_request", "Bad Request", err.Error())
	case pferrors.IsNotFound(err):
		return problemResponse(c, fiber.StatusNotFound,
			"not_found", "Not Found", err.Error())
	case errors.Is(err, pferrors.ErrRateLimit),
		errors.As(err, &apiErr) && apiErr.StatusCode == 429:
		return problemResponse(c, fiber.StatusTooManyRequests,
			"upstream_rate_limited", "Too Many Requests",
			"An upstream service is rate limiting requests. Try again later.")
	case errors.Is(err, pferrors.ErrAuthFailure):
		return problemResponse(c, fiber.StatusBadGateway,
			"upstream_auth_failed", "Bad Gateway",
			"Authentication with an upstream service failed.")
	default:
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return problemResponse(c, fiber.StatusBadGateway,
			"generation_failed", "Bad Gateway", err.Error())
	}
}

// GenerateLayout handles POST /api/v1/layouts.
func (h *Handlers) GenerateLayout(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request", "Request body must be valid JSON")
	}
	if req.Owner == "" || req.Repo == "" {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_request", "Bad Request", "owner and repo are required")
	}

	rec, cached, err := h.service.Generate(c.UserContext(), req.Owner, req.Repo, req.Mode, req.Force)
	if err != nil {
		return h.serviceError(c, err)
	}

	status := fiber.StatusCreated
	if cached {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(layoutResponse(rec, cached, true))
}

// PreviewLayout handles POST /api/v1/layouts/preview.
func (h *Handlers) PreviewLayout(c *fiber.Ctx) error {
	var req PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request", "Request body must be valid JSON")
	}

	doc, err := h.service.Preview(req.Input, req.Mode)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(PreviewResponse{Document: doc})
}

// ListLayouts handles GET /api/v1/layouts.
func (h *Handlers) ListLayouts(c *fiber.Ctx) error {
	filter := store.LayoutFilter{
		Owner: c.Query("owner"),
		Repo:  c.Query("repo"),
		Limit: c.QueryInt("limit"),
	}

	layouts, err := h.service.List(filter)
	if err != nil {
		return h.serviceError(c, err)
	}

	resp := LayoutListResponse{Layouts: []LayoutResponse{}, Count: len(layouts)}
	for _, rec := range layouts {
		resp.Layouts = append(resp.Layouts, layoutResponse(rec, false, false))
	}
	return c.JSON(resp)
}

// GetLayout handles GET /api/v1/layouts/:id.
func (h *Handlers) GetLayout(c *fiber.Ctx) error {
	rec, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(layoutResponse(rec, false, true))
}

// DeleteLayout handles DELETE /api/v1/layouts/:id.
func (h *Handlers) DeleteLayout(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		return h.serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Readiness handles GET /readyz.
func (h *Handlers) Readiness(c *fiber.Ctx) error {
	if h.checker != nil && !h.checker.IsReady(c.UserContext()) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not_ready",
			"checks": h.checker.Cached(),
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
