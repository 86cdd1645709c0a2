// Package schedule expands routine templates into concrete daily task
// instances.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

// Eligible reports whether a routine should generate for the given day: it
// must be active, its repeat schedule must cover the weekday, and it must not
// have generated today already.
func Eligible(r models.Routine, today time.Time) bool {
	if !r.IsActive || !r.MatchesDay(today) {
		return false
	}
	return r.LastGeneratedDate != utils.DayString(today)
}

// GenerateDueInstances emits one task per step of every eligible routine,
// preserving step order through sort order and spacing scheduled times by
// the cumulative estimated minutes of the preceding steps.
//
// This function is side-effect-free. It does NOT guard against being called
// twice in the same day: persisting the emitted tasks and stamping
// LastGeneratedDate on each routine is the caller's responsibility, and the
// two must be treated as a single logical transaction (see Service).
func GenerateDueInstances(routines []models.Routine, generatedToday map[string]bool, today time.Time, maxSortOrder int) []models.Task {
	var tasks []models.Task
	nextOrder := maxSortOrder

	for _, r := range routines {
		if generatedToday[r.ID] || !Eligible(r, today) {
			continue
		}

		start, err := utils.CombineDayAndTime(today, r.StartTime)
		if err != nil {
			// A malformed start time makes every step's schedule meaningless;
			// skip the routine rather than emit unanchored tasks.
			continue
		}

		offsetMinutes := 0
		for _, step := range r.Steps {
			nextOrder++
			scheduled := start.Add(time.Duration(offsetMinutes) * time.Minute)
			tasks = append(tasks, models.Task{
				ID:               uuid.NewString(),
				Content:          step.Content,
				Emoji:            step.Emoji,
				Status:           models.StatusActive,
				SortOrder:        nextOrder,
				EnergyLevel:      step.EnergyLevel,
				EstimatedMinutes: step.EstimatedMinutes,
				ScheduledTime:    &scheduled,
				RoutineID:        r.ID,
				SourceType:       models.SourceManual,
			})
			offsetMinutes += step.EstimatedMinutes
		}
	}

	return tasks
}
