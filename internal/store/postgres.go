package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// PostgresStore implements Store over a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore establishes a connection pool and verifies it.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Persist upserts the customer and inserts the ticket in one
// transaction. A failure at any point rolls back both writes, so a
// failed attempt never leaves an orphan customer row behind.
func (s *PostgresStore) Persist(ctx context.Context, input PersistInput) (PersistResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return PersistResult{}, errorutil.NewPersistenceError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var customerID int64
	const upsertCustomer = `
        INSERT INTO customers (email, name)
        VALUES ($1, $2)
        ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
        RETURNING id`
	if err := tx.QueryRow(ctx, upsertCustomer, input.Email, input.Name).Scan(&customerID); err != nil {
		return PersistResult{}, errorutil.NewPersistenceError(err)
	}

	result := PersistResult{
		CustomerID: customerID,
		Reference:  uuid.NewString(),
	}

	const insertTicket = `
        INSERT INTO tickets (reference, customer_id, raw_content, summary, category, priority, sentiment_score)
        VALUES ($1, $2, $3, $4, $5::ticket_category, $6::ticket_priority, $7)
        RETURNING id`
	if err := tx.QueryRow(ctx, insertTicket,
		result.Reference,
		customerID,
		input.RawContent,
		input.Classification.Summary,
		input.Classification.Category,
		input.Classification.Priority,
		input.Classification.SentimentScore,
	).Scan(&result.TicketID); err != nil {
		return PersistResult{}, errorutil.NewPersistenceError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return PersistResult{}, errorutil.NewPersistenceError(err)
	}

	s.logger.Info("ticket persisted",
		zap.Int64("ticket_id", result.TicketID),
		zap.Int64("customer_id", customerID),
		zap.String("reference", result.Reference))
	return result, nil
}

// FetchRecent returns the newest tickets joined with their customers.
func (s *PostgresStore) FetchRecent(ctx context.Context, limit int) ([]RecentTicket, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	const query = `
        SELECT t.id, t.summary, t.category, t.priority, t.sentiment_score, t.created_at,
               c.name AS customer_name, c.email AS customer_email
        FROM tickets t
        JOIN customers c ON t.customer_id = c.id
        ORDER BY t.created_at DESC, t.id DESC
        LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	defer rows.Close()

	result := make([]RecentTicket, 0, limit)
	for rows.Next() {
		var ticket RecentTicket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Summary,
			&ticket.Category,
			&ticket.Priority,
			&ticket.SentimentScore,
			&ticket.CreatedAt,
			&ticket.CustomerName,
			&ticket.CustomerEmail,
		); err != nil {
			return nil, errorutil.NewPersistenceError(err)
		}
		result = append(result, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}
	return result, nil
}

// Ping verifies connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases pool resources.
func (s *PostgresStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// PoolHandle returns the underlying pgx pool, used by migrations.
func (s *PostgresStore) PoolHandle() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}
