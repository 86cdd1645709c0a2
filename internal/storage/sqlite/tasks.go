package sqlite

import (
	"database/sql"
	"time"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/models"
)

const taskColumns = `id, content, emoji, status, created_at, updated_at, completed_at,
       snoozed_until, due_date, sort_order, priority, energy_level, estimated_minutes,
       scheduled_time, action_type, action_target, contact_name, draft_text, routine_id, source_type`

func (s *Store) PutTask(task models.Task) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO tasks (
			id, content, emoji, status, created_at, updated_at, completed_at,
			snoozed_until, due_date, sort_order, priority, energy_level, estimated_minutes,
			scheduled_time, action_type, action_target, contact_name, draft_text, routine_id, source_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Content, task.Emoji, string(task.Status),
		formatTime(task.CreatedAt), formatTime(task.UpdatedAt),
		formatTimePtr(task.CompletedAt), formatTimePtr(task.SnoozedUntil), formatTimePtr(task.DueDate),
		task.SortOrder, string(task.Priority), string(task.EnergyLevel), task.EstimatedMinutes,
		formatTimePtr(task.ScheduledTime), string(task.ActionType), task.ActionTarget,
		task.ContactName, task.DraftText, task.RoutineID, string(task.SourceType),
	)
	if err != nil {
		return errs.Storage("put task", err)
	}
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return models.Task{}, errs.NotFound("task", id)
	}
	if err != nil {
		return models.Task{}, errs.Storage("get task", err)
	}
	return task, nil
}

func (s *Store) ListTasks() ([]models.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks`)
	if err != nil {
		return nil, errs.Storage("list tasks", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *Store) ListTasksUpdatedSince(since time.Time) ([]models.Task, error) {
	// Timestamps are stored UTC with a fixed-width fraction, so the byte-wise
	// TEXT comparison is a correct timestamp comparison.
	rows, err := s.db.Query(`SELECT `+taskColumns+` FROM tasks WHERE updated_at > ?`, formatTime(since))
	if err != nil {
		return nil, errs.Storage("list tasks updated since", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *Store) RemoveTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return errs.Storage("remove task", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errs.Storage("remove task", err)
	}
	if affected == 0 {
		return errs.NotFound("task", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var status, priority, energy, actionType, sourceType string
	var createdAt, updatedAt string
	var completedAt, snoozedUntil, dueDate, scheduledTime sql.NullString

	err := row.Scan(
		&t.ID, &t.Content, &t.Emoji, &status, &createdAt, &updatedAt, &completedAt,
		&snoozedUntil, &dueDate, &t.SortOrder, &priority, &energy, &t.EstimatedMinutes,
		&scheduledTime, &actionType, &t.ActionTarget, &t.ContactName, &t.DraftText,
		&t.RoutineID, &sourceType,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Status = models.TaskStatus(status)
	t.Priority = models.Priority(priority)
	t.EnergyLevel = models.EnergyLevel(energy)
	t.ActionType = models.ActionType(actionType)
	t.SourceType = models.SourceType(sourceType)

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Task{}, err
	}
	if t.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return models.Task{}, err
	}
	if t.SnoozedUntil, err = parseTimePtr(snoozedUntil); err != nil {
		return models.Task{}, err
	}
	if t.DueDate, err = parseTimePtr(dueDate); err != nil {
		return models.Task{}, err
	}
	if t.ScheduledTime, err = parseTimePtr(scheduledTime); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errs.Storage("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("iterate tasks", err)
	}
	return tasks, nil
}
