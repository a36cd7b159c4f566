package domain

import (
	"fmt"
	"time"
)

// Category enumerates the closed set of ticket categories. The database
// schema mirrors this set as the ticket_category enum type.
type Category string

const (
	CategoryBilling        Category = "billing"
	CategoryTechnical      Category = "technical"
	CategoryFeatureRequest Category = "feature_request"
	CategoryGeneral        Category = "general"
)

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryBilling, CategoryTechnical, CategoryFeatureRequest, CategoryGeneral:
		return true
	}
	return false
}

// Priority enumerates ticket urgency. Mirrored by the ticket_priority
// enum type in the schema.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether the priority belongs to the closed set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Ticket is a classified support request. Tickets are immutable after
// insert; there is no update path in this pipeline.
type Ticket struct {
	ID             int64
	Reference      string
	CustomerID     int64
	RawContent     string
	Summary        string
	Category       Category
	Priority       Priority
	SentimentScore float64
	CreatedAt      time.Time
}

// Classification is the structured output of the AI classification
// service. It is transient: its fields land on the ticket row, it is
// never persisted as its own entity.
type Classification struct {
	Summary        string   `json:"summary"`
	Category       Category `json:"category"`
	Priority       Priority `json:"priority"`
	SentimentScore float64  `json:"sentiment_score"`
}

// Validate rejects classifications that would violate store-level
// constraints: out-of-set enum values or a sentiment outside [0, 1].
func (c Classification) Validate() error {
	if !c.Category.Valid() {
		return fmt.Errorf("invalid category %q", c.Category)
	}
	if !c.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", c.Priority)
	}
	if c.SentimentScore < 0.0 || c.SentimentScore > 1.0 {
		return fmt.Errorf("sentiment score %v outside [0.0, 1.0]", c.SentimentScore)
	}
	return nil
}
