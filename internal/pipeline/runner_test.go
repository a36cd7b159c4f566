package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/display"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/store"
)

// stubClassifier returns canned classifications, or an error after a
// fixed number of calls.
type stubClassifier struct {
	result   domain.Classification
	failAt   int // 1-based call index to fail at; 0 = never
	err      error
	calls    int
	received []string
}

func (s *stubClassifier) Classify(ctx context.Context, rawContent string) (domain.Classification, error) {
	s.calls++
	s.received = append(s.received, rawContent)
	if s.failAt > 0 && s.calls >= s.failAt {
		return domain.Classification{}, s.err
	}
	return s.result, nil
}

func newTestRunner(classifier *stubClassifier) (*Runner, *store.MemoryStore) {
	st := store.NewMemoryStore(zap.NewNop())
	return NewRunner(st, classifier, zap.NewNop(), observability.NewMetrics()), st
}

const billingTicket = `Subject: Billing Error - Charged Twice This Month!

I was charged twice for my subscription.

Email: sarah.johnson@email.com
Name: Sarah Johnson`

func TestProcessTicketEndToEnd(t *testing.T) {
	classifier := &stubClassifier{
		result: domain.Classification{
			Summary:        "Duplicate billing charge",
			Category:       domain.CategoryBilling,
			Priority:       domain.PriorityCritical,
			SentimentScore: 0.15,
		},
	}
	runner, st := newTestRunner(classifier)

	result, err := runner.ProcessTicket(context.Background(), billingTicket)
	require.NoError(t, err)
	assert.Equal(t, 1, st.CustomerCount())
	assert.Equal(t, 1, st.TicketCount())

	recent, err := st.FetchRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	row := recent[0]
	assert.Equal(t, result.TicketID, row.ID)
	assert.Equal(t, "Sarah Johnson", row.CustomerName)
	assert.Equal(t, "sarah.johnson@email.com", row.CustomerEmail)
	assert.Equal(t, domain.CategoryBilling, row.Category)
	assert.Equal(t, domain.PriorityCritical, row.Priority)
	assert.InDelta(t, 0.15, row.SentimentScore, 1e-9)

	// The display step renders the priority cell upper-cased and the
	// sentiment cell in the negative tier.
	var buf bytes.Buffer
	require.NoError(t, display.Render(&buf, recent, result.TicketID))
	assert.Contains(t, buf.String(), "CRITICAL")
	assert.Contains(t, buf.String(), "15% 😞")
}

func TestProcessTicketClassificationFailureSkipsPersistence(t *testing.T) {
	classifier := &stubClassifier{failAt: 1, err: errors.New("service unavailable")}
	runner, st := newTestRunner(classifier)

	_, err := runner.ProcessTicket(context.Background(), billingTicket)
	require.Error(t, err)
	assert.Equal(t, 0, st.CustomerCount(), "no persistence may happen after a classification failure")
	assert.Equal(t, 0, st.TicketCount())
}

func TestProcessTicketRejectsInvalidClassification(t *testing.T) {
	classifier := &stubClassifier{
		result: domain.Classification{
			Summary:        "bad",
			Category:       domain.Category("spam"),
			Priority:       domain.PriorityLow,
			SentimentScore: 0.5,
		},
	}
	runner, st := newTestRunner(classifier)

	_, err := runner.ProcessTicket(context.Background(), billingTicket)
	require.Error(t, err)
	assert.Equal(t, 0, st.TicketCount())
}

func TestProcessBatchSequentialAndAbortsOnFailure(t *testing.T) {
	classifier := &stubClassifier{
		result: domain.Classification{
			Summary:        "ok",
			Category:       domain.CategoryGeneral,
			Priority:       domain.PriorityLow,
			SentimentScore: 0.7,
		},
		failAt: 3,
		err:    errors.New("quota exceeded"),
	}
	runner, st := newTestRunner(classifier)

	tickets := []string{
		"first ticket\nEmail: a@example.com\nName: A",
		"second ticket\nEmail: b@example.com\nName: B",
		"third ticket\nEmail: c@example.com\nName: C",
		"fourth ticket\nEmail: d@example.com\nName: D",
	}

	last, err := runner.ProcessBatch(context.Background(), tickets)
	require.Error(t, err)

	assert.Equal(t, 3, classifier.calls, "tickets after the failure must not be classified")
	assert.Equal(t, 2, st.TicketCount(), "only tickets before the failure are persisted")
	assert.NotZero(t, last.TicketID, "last holds the final successful result")
}

func TestProcessBatchAllSamples(t *testing.T) {
	classifier := &stubClassifier{
		result: domain.Classification{
			Summary:        "sample",
			Category:       domain.CategoryGeneral,
			Priority:       domain.PriorityMedium,
			SentimentScore: 0.5,
		},
	}
	runner, st := newTestRunner(classifier)

	last, err := runner.ProcessBatch(context.Background(), SampleTickets)
	require.NoError(t, err)
	assert.Equal(t, len(SampleTickets), st.TicketCount())
	assert.Equal(t, len(SampleTickets), st.CustomerCount(), "each sample carries a distinct email")
	assert.NotZero(t, last.TicketID)

	recent, err := st.FetchRecent(context.Background(), 5)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	assert.Equal(t, last.TicketID, recent[0].ID, "the last processed ticket is the most recent")
}
