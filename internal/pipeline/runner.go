// Package pipeline sequences the ingestion flow: customer extraction,
// AI classification, and atomic persistence, strictly one ticket at a
// time.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/classify"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/extract"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/store"
	"github.com/spec-kit/ticket-triage/pkg/util/errorutil"
)

// Runner drives tickets through extraction, classification, and
// persistence. Errors are never retried: any failure aborts the
// current ticket and propagates to the caller.
type Runner struct {
	store      store.Store
	classifier classify.Classifier
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewRunner constructs the pipeline runner.
func NewRunner(st store.Store, classifier classify.Classifier, logger *zap.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		store:      st,
		classifier: classifier,
		logger:     logger,
		metrics:    metrics,
	}
}

// Result reports one successfully processed ticket: the rows written
// plus the classification that produced them.
type Result struct {
	store.PersistResult
	Classification domain.Classification
}

// ProcessTicket runs one ticket through the pipeline. Classification
// and persistence happen strictly in order; persistence only begins
// once classification has returned successfully.
func (r *Runner) ProcessTicket(ctx context.Context, rawContent string) (Result, error) {
	info := extract.Extract(rawContent)
	r.logger.Info("extracted customer",
		zap.String("name", info.Name),
		zap.String("email", info.Email))
	r.metrics.RecordStage("extracted")

	r.logger.Info("classifying ticket")
	classification, err := r.classifier.Classify(ctx, rawContent)
	if err != nil {
		r.metrics.RecordError("classify", errorutil.ToDomainError(err).Code)
		return Result{}, err
	}
	// Reject out-of-contract values at the type boundary, before the
	// store would reject them at the schema.
	if err := classification.Validate(); err != nil {
		r.metrics.RecordError("classify", "VALIDATION_FAILED")
		return Result{}, errorutil.NewValidationError(err.Error(), nil)
	}
	r.metrics.RecordStage("classified")
	r.logger.Info("ticket classified",
		zap.String("category", string(classification.Category)),
		zap.String("priority", string(classification.Priority)),
		zap.Float64("sentiment_score", classification.SentimentScore))

	persisted, err := r.store.Persist(ctx, store.PersistInput{
		Email:          info.Email,
		Name:           info.Name,
		RawContent:     rawContent,
		Classification: classification,
	})
	if err != nil {
		r.metrics.RecordError("persist", errorutil.ToDomainError(err).Code)
		return Result{}, err
	}
	r.metrics.RecordStage("persisted")
	r.logger.Info("ticket saved",
		zap.Int64("ticket_id", persisted.TicketID),
		zap.Int64("customer_id", persisted.CustomerID))

	return Result{PersistResult: persisted, Classification: classification}, nil
}

// ProcessBatch runs tickets sequentially. A failure on ticket k aborts
// k+1..N; there is no partial-batch continuation. Returns the result
// of the last successfully processed ticket.
func (r *Runner) ProcessBatch(ctx context.Context, rawContents []string) (Result, error) {
	var last Result
	for i, rawContent := range rawContents {
		r.logger.Info("processing ticket",
			zap.Int("index", i+1),
			zap.Int("total", len(rawContents)))
		result, err := r.ProcessTicket(ctx, rawContent)
		if err != nil {
			return last, err
		}
		last = result
	}
	return last, nil
}
