package models

import (
	"sort"
	"time"
)

// Ledger is the singleton reward and streak state. It is mutated only through
// the reward service, which serializes access; everything else reads
// snapshots.
type Ledger struct {
	Balance                int       `json:"balance"`
	LifetimeEarned         int       `json:"lifetime_earned"`
	CurrentStreak          int       `json:"current_streak"`
	LongestStreak          int       `json:"longest_streak"`
	LastCompletionDate     string    `json:"last_completion_date,omitempty"` // YYYY-MM-DD
	TasksCompletedToday    int       `json:"tasks_completed_today"`
	LastDailyResetDate     string    `json:"last_daily_reset_date,omitempty"` // YYYY-MM-DD
	StreakFreezesAvailable int       `json:"streak_freezes_available"`
	CelebratedMilestones   []int     `json:"celebrated_milestones,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// HasCelebrated reports whether the milestone threshold was already paid out.
func (l Ledger) HasCelebrated(threshold int) bool {
	for _, m := range l.CelebratedMilestones {
		if m == threshold {
			return true
		}
	}
	return false
}

// Celebrate records a milestone threshold as paid, keeping the set sorted
// and free of duplicates.
func (l *Ledger) Celebrate(threshold int) {
	if l.HasCelebrated(threshold) {
		return
	}
	l.CelebratedMilestones = append(l.CelebratedMilestones, threshold)
	sort.Ints(l.CelebratedMilestones)
}

// Level derives the level from lifetime earnings: the smallest n for which
// the cumulative cost 10+20+...+n*10 exceeds LifetimeEarned, minimum 1.
func (l Ledger) Level() int {
	level := 1
	cumulative := 0
	for {
		cumulative += level * 10
		if cumulative > l.LifetimeEarned {
			return level
		}
		level++
	}
}
