// Package notify plans local reminders. The core decides WHEN a reminder
// should fire and hands the task id and fire time to a Scheduler; delivery
// itself is an external collaborator.
package notify

import "time"

// Scheduler is the delivery-side collaborator.
type Scheduler interface {
	Schedule(taskID string, at time.Time, text string) error
	Cancel(taskID string) error
}

// NopScheduler discards reminders; used when no delivery agent is running.
type NopScheduler struct{}

func (NopScheduler) Schedule(string, time.Time, string) error { return nil }
func (NopScheduler) Cancel(string) error                      { return nil }
