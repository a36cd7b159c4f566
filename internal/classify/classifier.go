// Package classify calls the external AI classification service and
// turns raw ticket text into a structured classification.
package classify

import (
	"context"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Classifier abstracts the external AI classification service so the
// pipeline and store logic stay testable with a deterministic stub.
type Classifier interface {
	Classify(ctx context.Context, rawContent string) (domain.Classification, error)
}
