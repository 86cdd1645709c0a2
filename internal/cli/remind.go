package cli

import (
	"fmt"
	"time"

	"github.com/nudgelabs/nudge-core/internal/notify"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

type RemindCmd struct {
	DryRun bool `help:"Print the planned reminders without scheduling them."`
}

func (c *RemindCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	tasks, err := ctx.Tasks.Query(taskstore.Filter{})
	if err != nil {
		return err
	}

	now := time.Now()
	reminders := notify.PlanReminders(tasks, now)
	if len(reminders) == 0 {
		fmt.Println("No reminders to schedule")
		return nil
	}

	if c.DryRun {
		for _, r := range reminders {
			fmt.Printf("%s  [%s] %s\n", r.At.Format("2006-01-02 15:04"), shortID(r.TaskID), r.Text)
		}
		return nil
	}

	if err := notify.Apply(notify.NewTrayScheduler(), reminders); err != nil {
		return err
	}
	fmt.Printf("Scheduled %d reminder(s)\n", len(reminders))
	return nil
}
