// Package extract turns messy free-form text (a spoken brain dump, a shared
// note) into clean task candidates via an opaque language-model call.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

// Candidate is one extracted task proposal.
type Candidate struct {
	Content       string
	Emoji         string
	ActionType    models.ActionType
	ContactName   string
	ActionTarget  string
	Priority      models.Priority
	DueDateString string
}

// Extractor is the opaque extraction function. Implementations may fail or
// be unavailable; callers fall back to the raw text as a single task.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Candidate, error)
}

// Fallback wraps the raw text as one candidate, used whenever extraction
// fails or no extractor is configured.
func Fallback(text string) []Candidate {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return []Candidate{{Content: trimmed}}
}

// ResolveDueDate turns an extracted due-date string into a concrete date.
// The model emits either YYYY-MM-DD or a small set of relative words
// verbatim; anything unresolvable yields nil rather than a guess.
func ResolveDueDate(s string, now time.Time) *time.Time {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil
	case "today", "tonight":
		d := endOfDay(now)
		return &d
	case "tomorrow":
		d := endOfDay(now.AddDate(0, 0, 1))
		return &d
	}

	parsed, err := utils.ParseDay(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	d := endOfDay(time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location()))
	return &d
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
}
