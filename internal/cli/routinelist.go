package cli

import (
	"fmt"
	"strings"

	"github.com/nudgelabs/nudge-core/internal/models"
)

type RoutineListCmd struct {
	All bool `help:"Include inactive routines."`
}

func (c *RoutineListCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	routines, err := ctx.Schedule.Routines()
	if err != nil {
		return err
	}
	if len(routines) == 0 {
		fmt.Println("No routines found")
		return nil
	}

	for _, r := range routines {
		if !c.All && !r.IsActive {
			continue
		}

		status := "active"
		if !r.IsActive {
			status = "inactive"
		}
		fmt.Printf("[%s] %s - %d steps at %s (%s, %s)\n",
			shortID(r.ID), r.Name, len(r.Steps), r.StartTime, formatRepeat(r), status)
		for i, step := range r.Steps {
			line := fmt.Sprintf("    %d. %s", i+1, step.Content)
			if step.EstimatedMinutes > 0 {
				line += fmt.Sprintf(" (%dm)", step.EstimatedMinutes)
			}
			fmt.Println(line)
		}
		if r.LastGeneratedDate != "" {
			fmt.Printf("    last generated: %s\n", r.LastGeneratedDate)
		}
	}
	return nil
}

func formatRepeat(r models.Routine) string {
	switch r.Repeat {
	case models.RepeatWeekly:
		return "weekly on " + r.Weekday.String()[:3]
	case models.RepeatCustomDays:
		var days []string
		for _, wd := range r.CustomWeekdays {
			days = append(days, wd.String()[:3])
		}
		return strings.Join(days, ",")
	default:
		return string(r.Repeat)
	}
}
