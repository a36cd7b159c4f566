package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/pipeline"
	"github.com/spec-kit/ticket-triage/internal/store"
	"github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// TicketsHandler exposes the ingestion pipeline and the recency query
// over HTTP.
type TicketsHandler struct {
	runner      *pipeline.Runner
	store       store.Store
	recentLimit int
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(runner *pipeline.Runner, st store.Store, recentLimit int) *TicketsHandler {
	if recentLimit <= 0 {
		recentLimit = store.DefaultRecentLimit
	}
	return &TicketsHandler{runner: runner, store: st, recentLimit: recentLimit}
}

// Ingest POST /tickets runs one ticket through the pipeline.
func (h *TicketsHandler) Ingest(c *fiber.Ctx) error {
	var req dto.IngestTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Content) == "" {
		return errorutil.NewValidationError("content required", nil)
	}

	result, err := h.runner.ProcessTicket(c.UserContext(), req.Content)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.IngestTicketResponse{
		TicketID:       result.TicketID,
		CustomerID:     result.CustomerID,
		Reference:      result.Reference,
		Summary:        result.Classification.Summary,
		Category:       result.Classification.Category,
		Priority:       result.Classification.Priority,
		SentimentScore: result.Classification.SentimentScore,
	}})
}

// Recent GET /tickets/recent lists the newest tickets.
func (h *TicketsHandler) Recent(c *fiber.Ctx) error {
	limit := h.recentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return errorutil.NewValidationError("limit must be a positive integer", nil)
		}
		limit = parsed
	}

	tickets, err := h.store.FetchRecent(c.UserContext(), limit)
	if err != nil {
		return err
	}

	items := make([]dto.RecentTicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, dto.RecentTicketResponse{
			ID:             ticket.ID,
			Summary:        ticket.Summary,
			Category:       ticket.Category,
			Priority:       ticket.Priority,
			SentimentScore: ticket.SentimentScore,
			CreatedAt:      ticket.CreatedAt,
			CustomerName:   ticket.CustomerName,
			CustomerEmail:  ticket.CustomerEmail,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
