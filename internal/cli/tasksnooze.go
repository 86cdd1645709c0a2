package cli

import (
	"fmt"
	"time"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

type TaskSnoozeCmd struct {
	ID string `arg:"" help:"Task id (or unique prefix)."`

	For   time.Duration `short:"f" help:"Snooze for a duration (e.g. 2h, 30m)."`
	Until string        `short:"u" help:"Wake date (YYYY-MM-DD), wakes at 09:00."`
	At    string        `help:"Wake time (HH:MM), combined with --until or today."`
}

func (c *TaskSnoozeCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	task, err := findTask(ctx.Tasks, c.ID)
	if err != nil {
		return err
	}

	until, err := c.wakeTime(time.Now())
	if err != nil {
		return err
	}

	snoozed, err := ctx.Tasks.Snooze(task.ID, until)
	if err != nil {
		return err
	}
	fmt.Printf("Snoozed %q until %s\n", snoozed.Content, until.Format("2006-01-02 15:04"))
	return nil
}

func (c *TaskSnoozeCmd) wakeTime(now time.Time) (time.Time, error) {
	if c.For > 0 {
		return now.Add(c.For), nil
	}

	day := now
	if c.Until != "" {
		parsed, err := utils.ParseDay(c.Until)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid wake date %q: %w", c.Until, err)
		}
		day = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	}

	clock := "09:00"
	if c.At != "" {
		clock = c.At
	}
	if c.Until == "" && c.At == "" {
		return time.Time{}, errs.Validation("snooze needs --for, --until, or --at")
	}
	return utils.CombineDayAndTime(day, clock)
}
