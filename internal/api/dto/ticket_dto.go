package dto

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// IngestTicketRequest payload.
type IngestTicketRequest struct {
	Content string `json:"content"`
}

// IngestTicketResponse reports the rows written for one ticket.
type IngestTicketResponse struct {
	TicketID       int64           `json:"ticket_id"`
	CustomerID     int64           `json:"customer_id"`
	Reference      string          `json:"reference"`
	Summary        string          `json:"summary"`
	Category       domain.Category `json:"category"`
	Priority       domain.Priority `json:"priority"`
	SentimentScore float64         `json:"sentiment_score"`
}

// RecentTicketResponse is one row of the recent-tickets listing.
type RecentTicketResponse struct {
	ID             int64           `json:"id"`
	Summary        string          `json:"summary"`
	Category       domain.Category `json:"category"`
	Priority       domain.Priority `json:"priority"`
	SentimentScore float64         `json:"sentiment_score"`
	CreatedAt      time.Time       `json:"created_at"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
}
