// Package store persists classified tickets alongside their customers
// and serves the recency query that drives the terminal display.
package store

import (
	"context"
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// DefaultRecentLimit is the recency window used when the caller does
// not supply one.
const DefaultRecentLimit = 5

// PersistInput carries everything needed to store one classified
// ticket: the extracted customer identity plus the classification.
type PersistInput struct {
	Email          string
	Name           string
	RawContent     string
	Classification domain.Classification
}

// PersistResult identifies the rows written by a successful Persist.
type PersistResult struct {
	CustomerID int64
	TicketID   int64
	Reference  string
}

// RecentTicket is one row of the recency query: a ticket joined with
// its customer.
type RecentTicket struct {
	ID             int64
	Summary        string
	Category       domain.Category
	Priority       domain.Priority
	SentimentScore float64
	CreatedAt      time.Time
	CustomerName   string
	CustomerEmail  string
}

// Store encapsulates ticket persistence.
//
// Persist runs as a single atomic unit: upsert the customer keyed on
// email (name is last-write-wins), then insert the ticket referencing
// it. Either both rows exist afterwards or neither does. Enum columns
// reject out-of-set category and priority values, failing the whole
// transaction.
//
// FetchRecent returns at most limit tickets joined with their
// customers, newest first. An empty store yields an empty slice, not
// an error.
type Store interface {
	Persist(ctx context.Context, input PersistInput) (PersistResult, error)
	FetchRecent(ctx context.Context, limit int) ([]RecentTicket, error)
	Ping(ctx context.Context) error
	Close()
}
