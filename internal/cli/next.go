package cli

import (
	"fmt"
	"time"

	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/priority"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

type NextCmd struct {
	Energy string `short:"e" help:"How you're feeling (high|medium|low); defaults by time of day."`
	Score  bool   `help:"Show the recommendation score."`
}

func (c *NextCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	now := time.Now()

	energy, err := parseEnergy(c.Energy)
	if err != nil {
		return err
	}
	if energy == "" {
		energy = priority.EnergyBucket(now.Hour())
	}

	all, err := ctx.Tasks.Query(taskstore.Filter{})
	if err != nil {
		return err
	}

	// Candidates are the active queue plus snoozed tasks whose wake time
	// passed; those are overdue to resurface.
	var candidates []models.Task
	for _, t := range all {
		switch t.Status {
		case models.StatusActive:
			candidates = append(candidates, t)
		case models.StatusSnoozed:
			if t.IsOverdue(now) {
				candidates = append(candidates, t)
			}
		}
	}

	best, ok := priority.PickBest(candidates, now, energy, now.UnixNano())
	if !ok {
		fmt.Println("Nothing to do. Enjoy the quiet.")
		return nil
	}

	fmt.Printf("Next up: %s\n", formatTask(best, now))
	if best.DraftText != "" {
		fmt.Printf("Draft ready: %s\n", best.DraftText)
	}
	if c.Score {
		fmt.Printf("Score: %.1f (energy context: %s)\n", priority.Score(best, now, energy), energy)
	}
	return nil
}
