package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

func parseStatus(s string) (models.TaskStatus, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "active":
		return models.StatusActive, nil
	case "snoozed":
		return models.StatusSnoozed, nil
	case "done":
		return models.StatusDone, nil
	case "dropped":
		return models.StatusDropped, nil
	default:
		return "", fmt.Errorf("invalid status: %s", s)
	}
}

func parsePriority(s string) (models.Priority, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "high":
		return models.PriorityHigh, nil
	case "medium":
		return models.PriorityMedium, nil
	case "low":
		return models.PriorityLow, nil
	default:
		return "", fmt.Errorf("invalid priority: %s", s)
	}
}

func parseEnergy(s string) (models.EnergyLevel, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "high":
		return models.EnergyHigh, nil
	case "medium":
		return models.EnergyMedium, nil
	case "low":
		return models.EnergyLow, nil
	default:
		return "", fmt.Errorf("invalid energy level: %s", s)
	}
}

func parseAction(s string) (models.ActionType, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "call":
		return models.ActionCall, nil
	case "text":
		return models.ActionText, nil
	case "email":
		return models.ActionEmail, nil
	case "link":
		return models.ActionLink, nil
	default:
		return "", fmt.Errorf("invalid action type: %s", s)
	}
}

// parseDue accepts YYYY-MM-DD plus the relative words today/tonight/tomorrow,
// anchoring the due moment at the end of that day.
func parseDue(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	day := now
	switch strings.ToLower(s) {
	case "today", "tonight":
	case "tomorrow":
		day = now.AddDate(0, 0, 1)
	default:
		parsed, err := utils.ParseDay(s)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD, today, or tomorrow)", s)
		}
		day = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	}

	due := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, day.Location())
	return &due, nil
}

func parseWeekdays(s string) ([]time.Weekday, error) {
	dayMap := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}

	var weekdays []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		// Numeric form: 0=Sunday .. 6=Saturday.
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, time.Weekday(num))
	}
	return weekdays, nil
}

// findTask resolves a task by full id or unique id prefix.
func findTask(tasks *taskstore.Store, idOrPrefix string) (models.Task, error) {
	if task, err := tasks.Get(idOrPrefix); err == nil {
		return task, nil
	}

	all, err := tasks.Query(taskstore.Filter{})
	if err != nil {
		return models.Task{}, err
	}

	var matches []models.Task
	for _, t := range all {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, errs.NotFound("task", idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("id prefix %q matches %d tasks", idOrPrefix, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTask(t models.Task, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", shortID(t.ID), t.Content)
	if t.Emoji != "" {
		fmt.Fprintf(&b, " %s", t.Emoji)
	}

	var attrs []string
	if t.Status != models.StatusActive {
		attrs = append(attrs, string(t.Status))
	}
	if t.DueDate != nil {
		label := utils.DayString(*t.DueDate)
		if t.IsOverdue(now) {
			label += " OVERDUE"
		} else if t.IsDueToday(now) {
			label = "today"
		}
		attrs = append(attrs, "due "+label)
	}
	if t.Status == models.StatusSnoozed && t.SnoozedUntil != nil {
		attrs = append(attrs, "until "+t.SnoozedUntil.Format("2006-01-02 15:04"))
	}
	if t.Priority != "" {
		attrs = append(attrs, string(t.Priority))
	}
	if t.EstimatedMinutes > 0 {
		attrs = append(attrs, fmt.Sprintf("%dm", t.EstimatedMinutes))
	}
	if t.ActionType != "" {
		action := string(t.ActionType)
		if t.ContactName != "" {
			action += " " + t.ContactName
		}
		attrs = append(attrs, action)
	}
	if len(attrs) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(attrs, ", "))
	}
	return b.String()
}
