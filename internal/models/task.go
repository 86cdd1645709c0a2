package models

import "time"

type TaskStatus string

const (
	StatusActive  TaskStatus = "active"
	StatusSnoozed TaskStatus = "snoozed"
	StatusDone    TaskStatus = "done"
	StatusDropped TaskStatus = "dropped"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

type ActionType string

const (
	ActionCall  ActionType = "call"
	ActionText  ActionType = "text"
	ActionEmail ActionType = "email"
	ActionLink  ActionType = "link"
)

type SourceType string

const (
	SourceManual SourceType = "manual"
	SourceVoice  SourceType = "voice"
	SourceShare  SourceType = "share"
)

// Task is a single unit of work. UpdatedAt is the merge timestamp for
// last-writer-wins reconciliation and must strictly increase on every
// mutation, including ones applied by the sync reconciler.
type Task struct {
	ID               string      `json:"id"`
	Content          string      `json:"content"`
	Emoji            string      `json:"emoji,omitempty"`
	Status           TaskStatus  `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	SnoozedUntil     *time.Time  `json:"snoozed_until,omitempty"`
	DueDate          *time.Time  `json:"due_date,omitempty"`
	SortOrder        int         `json:"sort_order"`
	Priority         Priority    `json:"priority,omitempty"`
	EnergyLevel      EnergyLevel `json:"energy_level,omitempty"`
	EstimatedMinutes int         `json:"estimated_minutes,omitempty"`
	ScheduledTime    *time.Time  `json:"scheduled_time,omitempty"`
	ActionType       ActionType  `json:"action_type,omitempty"`
	ActionTarget     string      `json:"action_target,omitempty"`
	ContactName      string      `json:"contact_name,omitempty"`
	DraftText        string      `json:"draft_text,omitempty"`
	RoutineID        string      `json:"routine_id,omitempty"`
	SourceType       SourceType  `json:"source_type"`
}

// AgeDays returns the task's age in whole calendar days relative to now.
func (t Task) AgeDays(now time.Time) int {
	days := int(now.Sub(t.CreatedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue reports whether the task is past its wake time (snoozed) or
// past its due date (active).
func (t Task) IsOverdue(now time.Time) bool {
	switch t.Status {
	case StatusSnoozed:
		return t.SnoozedUntil != nil && !t.SnoozedUntil.After(now)
	case StatusActive:
		return t.DueDate != nil && t.DueDate.Before(now)
	default:
		return false
	}
}

// IsStale reports whether an active task has sat unactioned long enough to
// be promoted in the browsing queue.
func (t Task) IsStale(now time.Time, staleAgeDays int) bool {
	return t.Status == StatusActive && t.AgeDays(now) >= staleAgeDays
}

// IsDueToday reports whether the due date falls on the same calendar day as
// now without being overdue yet.
func (t Task) IsDueToday(now time.Time) bool {
	if t.DueDate == nil || t.IsOverdue(now) {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
