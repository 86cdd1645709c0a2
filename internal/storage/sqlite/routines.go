package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/models"
)

func (s *Store) PutRoutine(routine models.Routine) error {
	stepsJSON, err := json.Marshal(routine.Steps)
	if err != nil {
		return errs.Storage("marshal routine steps", err)
	}
	weekdaysJSON, err := json.Marshal(routine.CustomWeekdays)
	if err != nil {
		return errs.Storage("marshal routine weekdays", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO routines (
			id, name, steps, repeat, custom_weekdays, weekday, start_time,
			is_active, last_generated_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		routine.ID, routine.Name, string(stepsJSON), string(routine.Repeat),
		string(weekdaysJSON), int(routine.Weekday), routine.StartTime,
		routine.IsActive, routine.LastGeneratedDate,
		formatTime(routine.CreatedAt), formatTime(routine.UpdatedAt),
	)
	if err != nil {
		return errs.Storage("put routine", err)
	}
	return nil
}

func (s *Store) GetRoutine(id string) (models.Routine, error) {
	row := s.db.QueryRow(`
		SELECT id, name, steps, repeat, custom_weekdays, weekday, start_time,
		       is_active, last_generated_date, created_at, updated_at
		FROM routines WHERE id = ?`, id)
	routine, err := scanRoutine(row)
	if err == sql.ErrNoRows {
		return models.Routine{}, errs.NotFound("routine", id)
	}
	if err != nil {
		return models.Routine{}, errs.Storage("get routine", err)
	}
	return routine, nil
}

func (s *Store) ListRoutines() ([]models.Routine, error) {
	rows, err := s.db.Query(`
		SELECT id, name, steps, repeat, custom_weekdays, weekday, start_time,
		       is_active, last_generated_date, created_at, updated_at
		FROM routines`)
	if err != nil {
		return nil, errs.Storage("list routines", err)
	}
	defer rows.Close()

	var routines []models.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, errs.Storage("scan routine", err)
		}
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("iterate routines", err)
	}
	return routines, nil
}

func (s *Store) RemoveRoutine(id string) error {
	res, err := s.db.Exec(`DELETE FROM routines WHERE id = ?`, id)
	if err != nil {
		return errs.Storage("remove routine", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errs.Storage("remove routine", err)
	}
	if affected == 0 {
		return errs.NotFound("routine", id)
	}
	return nil
}

func scanRoutine(row rowScanner) (models.Routine, error) {
	var r models.Routine
	var steps, repeat, weekdays, createdAt, updatedAt string
	var weekday int

	err := row.Scan(
		&r.ID, &r.Name, &steps, &repeat, &weekdays, &weekday, &r.StartTime,
		&r.IsActive, &r.LastGeneratedDate, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Routine{}, err
	}

	r.Repeat = models.RepeatSchedule(repeat)
	r.Weekday = time.Weekday(weekday)
	if err := json.Unmarshal([]byte(steps), &r.Steps); err != nil {
		return models.Routine{}, err
	}
	var days []int
	if err := json.Unmarshal([]byte(weekdays), &days); err != nil {
		return models.Routine{}, err
	}
	for _, d := range days {
		r.CustomWeekdays = append(r.CustomWeekdays, time.Weekday(d))
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Routine{}, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Routine{}, err
	}
	return r, nil
}
