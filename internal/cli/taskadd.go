package cli

import (
	"fmt"
	"time"

	"github.com/nudgelabs/nudge-core/internal/taskstore"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

type TaskAddCmd struct {
	Content string `arg:"" help:"What needs doing."`

	Emoji    string `help:"Emoji tag for the task."`
	Due      string `short:"d" help:"Due date (YYYY-MM-DD, today, tomorrow)."`
	Priority string `short:"p" help:"Priority (high|medium|low)."`
	Energy   string `short:"e" help:"Energy this task needs (high|medium|low)."`
	Minutes  int    `short:"m" help:"Estimated minutes."`
	At       string `help:"Scheduled time today (HH:MM)."`
	Action   string `short:"a" help:"Action type (call|text|email|link)."`
	Target   string `help:"Action target (phone number, email address, URL)."`
	Contact  string `help:"Contact name for call/text/email tasks."`
	Draft    string `help:"Pre-written message draft."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	now := time.Now()

	priority, err := parsePriority(c.Priority)
	if err != nil {
		return err
	}
	energy, err := parseEnergy(c.Energy)
	if err != nil {
		return err
	}
	action, err := parseAction(c.Action)
	if err != nil {
		return err
	}
	due, err := parseDue(c.Due, now)
	if err != nil {
		return err
	}

	var scheduled *time.Time
	if c.At != "" {
		at, err := utils.CombineDayAndTime(now, c.At)
		if err != nil {
			return err
		}
		scheduled = &at
	}

	task, err := ctx.Tasks.Create(taskstore.CreateSpec{
		Content:          c.Content,
		Emoji:            c.Emoji,
		DueDate:          due,
		Priority:         priority,
		EnergyLevel:      energy,
		EstimatedMinutes: c.Minutes,
		ScheduledTime:    scheduled,
		ActionType:       action,
		ActionTarget:     c.Target,
		ContactName:      c.Contact,
		DraftText:        c.Draft,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added: %s\n", formatTask(task, now))
	return nil
}
