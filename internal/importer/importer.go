// Package importer pulls candidate tasks from external sources (calendar,
// reminders) and creates local tasks for the ones not already present.
package importer

import (
	"context"
	"strings"
	"time"

	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

// Candidate is one raw record offered by a source.
type Candidate struct {
	Title   string
	DueDate *time.Time
	Notes   string
}

// Source produces candidate records. Implementations own their transport
// and credentials; the importer only deduplicates and creates.
type Source interface {
	Candidates(ctx context.Context) ([]Candidate, error)
}

// Result reports what an import run did.
type Result struct {
	Created int
	Skipped int
}

// Run imports candidates from the source, skipping any whose title matches
// an existing task's content case-insensitively.
func Run(ctx context.Context, src Source, tasks *taskstore.Store) (Result, error) {
	var res Result

	candidates, err := src.Candidates(ctx)
	if err != nil {
		return res, err
	}
	if len(candidates) == 0 {
		return res, nil
	}

	existing, err := tasks.Query(taskstore.Filter{})
	if err != nil {
		return res, err
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(strings.TrimSpace(t.Content))] = true
	}

	for _, c := range candidates {
		title := strings.TrimSpace(c.Title)
		if title == "" {
			res.Skipped++
			continue
		}
		key := strings.ToLower(title)
		if seen[key] {
			res.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		_, err := tasks.Create(taskstore.CreateSpec{
			Content:    title,
			DueDate:    c.DueDate,
			SourceType: models.SourceShare,
		})
		if err != nil {
			return res, err
		}
		seen[key] = true
		res.Created++
	}

	logger.Info("Import finished", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}
