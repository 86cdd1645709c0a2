package cli

import (
	"fmt"
	"time"

	"github.com/nudgelabs/nudge-core/internal/constants"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/priority"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

type TaskListCmd struct {
	Status  string `short:"s" help:"Filter by status (active|snoozed|done|dropped)."`
	Keyword string `short:"k" help:"Filter by content keyword."`
	Limit   int    `short:"n" help:"Show at most N tasks."`
	All     bool   `help:"Show every status, not just the active queue."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	status, err := parseStatus(c.Status)
	if err != nil {
		return err
	}
	if status == "" && !c.All {
		status = models.StatusActive
	}

	tasks, err := ctx.Tasks.Query(taskstore.Filter{
		Status:  status,
		Keyword: c.Keyword,
		Limit:   c.Limit,
	})
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	now := time.Now()
	if status == models.StatusActive {
		// The active queue is browsed in priority order, not raw sort order.
		tasks = priority.OrderActiveQueue(tasks, now)
	}

	for _, t := range tasks {
		line := formatTask(t, now)
		if t.Status == models.StatusActive && t.IsStale(now, constants.StaleAgeDays) {
			line += fmt.Sprintf("  ~ %dd old", t.AgeDays(now))
		}
		fmt.Println(line)
	}
	return nil
}
