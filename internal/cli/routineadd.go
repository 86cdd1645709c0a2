package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

type RoutineAddCmd struct {
	Name string `arg:"" help:"Routine name."`

	Step     []string `short:"s" required:"" help:"Routine step, repeatable; 'content' or 'content:minutes'."`
	At       string   `short:"t" required:"" help:"Start time (HH:MM)."`
	Repeat   string   `short:"r" default:"daily" help:"Repeat schedule (daily|weekdays|weekends|weekly|custom_days)."`
	Weekday  string   `help:"Weekday for weekly repeat."`
	Weekdays string   `short:"w" help:"Comma-separated weekdays for custom_days repeat."`
}

func (c *RoutineAddCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	if !utils.ValidateTimeFormat(c.At) {
		return errs.Validation("invalid start time %q (want HH:MM)", c.At)
	}

	steps, err := parseSteps(c.Step)
	if err != nil {
		return err
	}

	routine := models.Routine{
		ID:        uuid.NewString(),
		Name:      c.Name,
		Steps:     steps,
		StartTime: c.At,
		IsActive:  true,
	}

	switch models.RepeatSchedule(c.Repeat) {
	case models.RepeatDaily, models.RepeatWeekdays, models.RepeatWeekends:
		routine.Repeat = models.RepeatSchedule(c.Repeat)
	case models.RepeatWeekly:
		if c.Weekday == "" {
			return errs.Validation("weekly repeat needs --weekday")
		}
		wds, err := parseWeekdays(c.Weekday)
		if err != nil {
			return err
		}
		routine.Repeat = models.RepeatWeekly
		routine.Weekday = wds[0]
	case models.RepeatCustomDays:
		if c.Weekdays == "" {
			return errs.Validation("custom_days repeat needs --weekdays")
		}
		wds, err := parseWeekdays(c.Weekdays)
		if err != nil {
			return err
		}
		routine.Repeat = models.RepeatCustomDays
		routine.CustomWeekdays = wds
	default:
		return errs.Validation("invalid repeat schedule: %s", c.Repeat)
	}

	if err := ctx.Schedule.SaveRoutine(routine); err != nil {
		return err
	}
	fmt.Printf("Added routine %q (%d steps at %s, %s)\n",
		c.Name, len(steps), c.At, routine.Repeat)
	return nil
}

// parseSteps splits each flag value on its trailing ':minutes' suffix when
// the suffix is numeric; everything else is step content verbatim.
func parseSteps(raw []string) ([]models.Step, error) {
	var steps []models.Step
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, errs.Validation("routine step content must not be empty")
		}

		step := models.Step{Content: s}
		if idx := strings.LastIndex(s, ":"); idx > 0 {
			if mins, err := strconv.Atoi(strings.TrimSpace(s[idx+1:])); err == nil && mins > 0 {
				step.Content = strings.TrimSpace(s[:idx])
				step.EstimatedMinutes = mins
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}
