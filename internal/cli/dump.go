package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nudgelabs/nudge-core/internal/extract"
	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

type DumpCmd struct {
	Text []string `arg:"" help:"Free-form brain dump; extracted into tasks."`

	Raw bool `help:"Skip extraction, create one task from the raw text."`
}

func (c *DumpCmd) Run(appCtx *Context) error {
	if err := appCtx.DB.Load(); err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(c.Text, " "))
	if text == "" {
		return fmt.Errorf("nothing to capture")
	}

	now := time.Now()
	candidates := c.extract(appCtx, text)

	for _, cand := range candidates {
		task, err := appCtx.Tasks.Create(taskstore.CreateSpec{
			Content:      cand.Content,
			Emoji:        cand.Emoji,
			ActionType:   cand.ActionType,
			ContactName:  cand.ContactName,
			ActionTarget: cand.ActionTarget,
			Priority:     cand.Priority,
			DueDate:      extract.ResolveDueDate(cand.DueDateString, now),
			SourceType:   models.SourceVoice,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added: %s\n", formatTask(task, now))
	}
	return nil
}

// extract runs the language-model extraction when one is configured, falling
// back to the raw text as a single task on any failure. Capture never fails
// because the extractor did.
func (c *DumpCmd) extract(appCtx *Context, text string) []extract.Candidate {
	if c.Raw {
		return extract.Fallback(text)
	}

	extractor := appCtx.Extractor()
	if extractor == nil {
		return extract.Fallback(text)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	candidates, err := extractor.Extract(ctx, text)
	if err != nil || len(candidates) == 0 {
		logger.Warn("Extraction failed, capturing raw text", "error", err)
		return extract.Fallback(text)
	}
	return candidates
}
