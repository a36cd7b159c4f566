package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// MemoryStore is an in-process Store used when POSTGRES_DSN is not
// configured, and by tests. It enforces the same semantics as the
// Postgres schema: email-keyed upsert identity, closed enum sets, and
// atomicity of the upsert+insert pair.
type MemoryStore struct {
	mu             sync.Mutex
	customers      map[string]*domain.Customer
	tickets        []domain.Ticket
	nextCustomerID int64
	nextTicketID   int64
	logger         *zap.Logger

	// now is swapped out by tests that need deterministic timestamps.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		customers: make(map[string]*domain.Customer),
		logger:    logger,
		now:       time.Now,
	}
}

// Persist applies the customer upsert and ticket insert as one atomic
// unit. The schema-level checks (enum membership, sentiment range) run
// at the insert step, exactly where the database would reject them;
// a rejected insert rolls the staged customer change back.
func (s *MemoryStore) Persist(ctx context.Context, input PersistInput) (PersistResult, error) {
	if err := ctx.Err(); err != nil {
		return PersistResult{}, errorutil.NewPersistenceError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage the customer upsert, remembering how to undo it.
	var undo func()
	customer, exists := s.customers[input.Email]
	if exists {
		previousName := customer.Name
		customer.Name = input.Name
		undo = func() { customer.Name = previousName }
	} else {
		s.nextCustomerID++
		customer = &domain.Customer{ID: s.nextCustomerID, Email: input.Email, Name: input.Name}
		s.customers[input.Email] = customer
		undo = func() {
			delete(s.customers, input.Email)
			s.nextCustomerID--
		}
	}

	if err := s.checkTicketConstraints(input.Classification); err != nil {
		undo()
		return PersistResult{}, errorutil.NewPersistenceError(err)
	}

	s.nextTicketID++
	ticket := domain.Ticket{
		ID:             s.nextTicketID,
		Reference:      uuid.NewString(),
		CustomerID:     customer.ID,
		RawContent:     input.RawContent,
		Summary:        input.Classification.Summary,
		Category:       input.Classification.Category,
		Priority:       input.Classification.Priority,
		SentimentScore: input.Classification.SentimentScore,
		CreatedAt:      s.now(),
	}
	s.tickets = append(s.tickets, ticket)

	s.logger.Debug("ticket persisted in memory",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("customer_id", customer.ID))

	return PersistResult{
		CustomerID: customer.ID,
		TicketID:   ticket.ID,
		Reference:  ticket.Reference,
	}, nil
}

// checkTicketConstraints mirrors the tickets table constraints.
func (s *MemoryStore) checkTicketConstraints(classification domain.Classification) error {
	if !classification.Category.Valid() {
		return fmt.Errorf("invalid input value for enum ticket_category: %q", classification.Category)
	}
	if !classification.Priority.Valid() {
		return fmt.Errorf("invalid input value for enum ticket_priority: %q", classification.Priority)
	}
	if classification.SentimentScore < 0.0 || classification.SentimentScore > 1.0 {
		return fmt.Errorf("sentiment_score %v violates check constraint", classification.SentimentScore)
	}
	return nil
}

// FetchRecent returns the newest tickets joined with their customers,
// ordered by creation time descending with id as tiebreak.
func (s *MemoryStore) FetchRecent(ctx context.Context, limit int) ([]RecentTicket, error) {
	if err := ctx.Err(); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customersByID := make(map[int64]*domain.Customer, len(s.customers))
	for _, customer := range s.customers {
		customersByID[customer.ID] = customer
	}

	sorted := make([]domain.Ticket, len(s.tickets))
	copy(sorted, s.tickets)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	result := make([]RecentTicket, 0, len(sorted))
	for _, ticket := range sorted {
		customer := customersByID[ticket.CustomerID]
		result = append(result, RecentTicket{
			ID:             ticket.ID,
			Summary:        ticket.Summary,
			Category:       ticket.Category,
			Priority:       ticket.Priority,
			SentimentScore: ticket.SentimentScore,
			CreatedAt:      ticket.CreatedAt,
			CustomerName:   customer.Name,
			CustomerEmail:  customer.Email,
		})
	}
	return result, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op; the store lives and dies with the process.
func (s *MemoryStore) Close() {}

// CustomerCount reports the number of customer rows.
func (s *MemoryStore) CustomerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers)
}

// TicketCount reports the number of ticket rows.
func (s *MemoryStore) TicketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}
