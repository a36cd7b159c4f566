// Package extract pulls customer contact details out of raw ticket
// text. It is a best-effort heuristic, not a validator: extraction
// never fails, it degrades to placeholder values.
package extract

import (
	"regexp"
	"strings"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Fallback values used when no email or name marker is present.
const (
	FallbackEmail = "unknown@example.com"
	FallbackName  = "Unknown Customer"
)

const nameMarker = "name:"

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Extract scans raw ticket text for an email address and a display
// name. The first email-shaped substring wins. The name is everything
// after the first case-insensitive "name:" marker on a line, trimmed.
// A marker with nothing after it yields an empty name, not the
// fallback; the fallback applies only when no line carries the marker.
func Extract(raw string) domain.CustomerInfo {
	info := domain.CustomerInfo{
		Email: FallbackEmail,
		Name:  FallbackName,
	}

	if match := emailPattern.FindString(raw); match != "" {
		info.Email = match
	}

	for _, line := range strings.Split(raw, "\n") {
		idx := strings.Index(strings.ToLower(line), nameMarker)
		if idx < 0 {
			continue
		}
		info.Name = strings.TrimSpace(line[idx+len(nameMarker):])
		break
	}

	return info
}
