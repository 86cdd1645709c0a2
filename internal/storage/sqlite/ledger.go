package sqlite

import (
	"database/sql"
	"encoding/json"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/models"
)

// The ledger is a singleton row (id = 1). A fresh store reads back the zero
// ledger rather than an error so first-run callers need no special case.
func (s *Store) GetLedger() (models.Ledger, error) {
	row := s.db.QueryRow(`
		SELECT balance, lifetime_earned, current_streak, longest_streak,
		       last_completion_date, tasks_completed_today, last_daily_reset_date,
		       streak_freezes_available, celebrated_milestones, updated_at
		FROM ledger WHERE id = 1`)

	var l models.Ledger
	var milestones, updatedAt string
	err := row.Scan(
		&l.Balance, &l.LifetimeEarned, &l.CurrentStreak, &l.LongestStreak,
		&l.LastCompletionDate, &l.TasksCompletedToday, &l.LastDailyResetDate,
		&l.StreakFreezesAvailable, &milestones, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Ledger{}, nil
	}
	if err != nil {
		return models.Ledger{}, errs.Storage("get ledger", err)
	}

	if err := json.Unmarshal([]byte(milestones), &l.CelebratedMilestones); err != nil {
		return models.Ledger{}, errs.Storage("parse celebrated milestones", err)
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Ledger{}, errs.Storage("parse ledger timestamp", err)
	}
	return l, nil
}

func (s *Store) SaveLedger(l models.Ledger) error {
	milestones, err := json.Marshal(l.CelebratedMilestones)
	if err != nil {
		return errs.Storage("marshal celebrated milestones", err)
	}
	if l.CelebratedMilestones == nil {
		milestones = []byte("[]")
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO ledger (
			id, balance, lifetime_earned, current_streak, longest_streak,
			last_completion_date, tasks_completed_today, last_daily_reset_date,
			streak_freezes_available, celebrated_milestones, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Balance, l.LifetimeEarned, l.CurrentStreak, l.LongestStreak,
		l.LastCompletionDate, l.TasksCompletedToday, l.LastDailyResetDate,
		l.StreakFreezesAvailable, string(milestones), formatTime(l.UpdatedAt),
	)
	if err != nil {
		return errs.Storage("save ledger", err)
	}
	return nil
}
