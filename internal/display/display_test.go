package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/store"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "below limit untouched", in: "short", max: 15, want: "short"},
		{name: "at limit untouched", in: strings.Repeat("a", 15), max: 15, want: strings.Repeat("a", 15)},
		{name: "above limit gets ellipsis", in: strings.Repeat("a", 16), max: 15, want: strings.Repeat("a", 12) + "..."},
		{name: "empty string", in: "", max: 15, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), tt.max)
		})
	}
}

func TestTruncateLongStringEndsInEllipsis(t *testing.T) {
	got := Truncate("This summary is definitely much longer than the forty-five character limit", 45)
	assert.Len(t, []rune(got), 45)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSentimentTiers(t *testing.T) {
	tests := []struct {
		score float64
		emoji string
	}{
		{0.39, "😞"},
		{0.40, "😐"},
		{0.59, "😐"},
		{0.60, "😊"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.emoji, sentimentEmoji(tt.score), "score %v", tt.score)
	}

	assert.Equal(t, colorRed, sentimentColor(0.39))
	assert.Equal(t, colorYellow, sentimentColor(0.40))
	assert.Equal(t, colorYellow, sentimentColor(0.59))
	assert.Equal(t, colorGreen, sentimentColor(0.60))
}

func TestFormatSentiment(t *testing.T) {
	assert.Equal(t, "15% 😞", formatSentiment(0.15))
	assert.Equal(t, "85% 😊", formatSentiment(0.85))
	assert.Equal(t, "50% 😐", formatSentiment(0.50))
	// Truncation toward zero, not rounding.
	assert.Equal(t, "39% 😞", formatSentiment(0.399))
}

func TestFormatCategory(t *testing.T) {
	assert.Equal(t, "Feature Request", formatCategory(domain.CategoryFeatureRequest))
	assert.Equal(t, "Billing", formatCategory(domain.CategoryBilling))
}

func TestFormatPriority(t *testing.T) {
	assert.Equal(t, "CRITICAL", formatPriority(domain.PriorityCritical))
	assert.Equal(t, "LOW", formatPriority(domain.PriorityLow))
	assert.True(t, priorityStyle(domain.PriorityCritical).GetBold())
	assert.False(t, priorityStyle(domain.PriorityHigh).GetBold())
}

func TestRenderEmptyState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, 0))

	out := buf.String()
	assert.Contains(t, out, "No tickets found. Process your first ticket!")
	assert.NotContains(t, out, "Recent Tickets (Last")
	assert.True(t, strings.HasPrefix(out, "\n"))
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}

func TestRenderTable(t *testing.T) {
	tickets := []store.RecentTicket{
		{
			ID:             42,
			Summary:        "Duplicate billing charge",
			Category:       domain.CategoryBilling,
			Priority:       domain.PriorityCritical,
			SentimentScore: 0.15,
			CreatedAt:      time.Now(),
			CustomerName:   "Sarah Johnson",
			CustomerEmail:  "sarah.johnson@email.com",
		},
		{
			ID:             41,
			Summary:        "A very long summary that should get cut off well before it reaches the table edge",
			Category:       domain.CategoryFeatureRequest,
			Priority:       domain.PriorityLow,
			SentimentScore: 0.85,
			CreatedAt:      time.Now().Add(-time.Minute),
			CustomerName:   "A Customer With A Long Name",
			CustomerEmail:  "long@example.com",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tickets, 42))

	out := buf.String()
	assert.Contains(t, out, "Recent Tickets (Last 2)")
	assert.Contains(t, out, "Sarah Johnson")
	assert.Contains(t, out, "Duplicate billing charge")
	assert.Contains(t, out, "Billing")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "15% 😞")
	assert.Contains(t, out, "85% 😊")
	assert.Contains(t, out, "Feature Request")
	assert.Contains(t, out, "A Customer W...")
	assert.NotContains(t, out, "reaches the table edge", "over-length summary must be truncated")
}
