package notify

import (
	"fmt"
	"time"

	"github.com/nudgelabs/nudge-core/internal/constants"
	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/models"
)

// Reminder is one planned local notification.
type Reminder struct {
	TaskID string
	At     time.Time
	Text   string
}

// PlanReminders decides which reminders a task set needs right now: a wake
// nudge when a snooze expires and a check-in for tasks going stale. Only
// future fire times are planned; delivery dedup is the scheduler's concern.
func PlanReminders(tasks []models.Task, now time.Time) []Reminder {
	var reminders []Reminder
	for _, t := range tasks {
		switch t.Status {
		case models.StatusSnoozed:
			if t.SnoozedUntil != nil && t.SnoozedUntil.After(now) {
				reminders = append(reminders, Reminder{
					TaskID: t.ID,
					At:     *t.SnoozedUntil,
					Text:   fmt.Sprintf("Back on your list: %s", t.Content),
				})
			}
		case models.StatusActive:
			checkIn := t.CreatedAt.Add(constants.StaleCheckInAfter)
			if checkIn.After(now) {
				reminders = append(reminders, Reminder{
					TaskID: t.ID,
					At:     checkIn,
					Text:   fmt.Sprintf("Still on your plate: %s", t.Content),
				})
			}
		}
	}
	return reminders
}

// Apply hands each planned reminder to the scheduler, cancelling first so a
// replan replaces rather than stacks.
func Apply(s Scheduler, reminders []Reminder) error {
	for _, r := range reminders {
		if err := s.Cancel(r.TaskID); err != nil {
			return err
		}
		if err := s.Schedule(r.TaskID, r.At, r.Text); err != nil {
			return err
		}
	}
	logger.Debug("Planned reminders", "count", len(reminders))
	return nil
}
