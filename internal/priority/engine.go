// Package priority ranks the task queue. Everything here is a pure function
// over an in-memory task list; no I/O, so it is testable without a store.
package priority

import (
	"math/rand"
	"sort"
	"time"

	"github.com/nudgelabs/nudge-core/internal/constants"
	"github.com/nudgelabs/nudge-core/internal/models"
)

// OrderActiveQueue returns the browsing order: overdue first, then stale,
// then manual sort order, ties broken by id. The sort is stable and uses no
// randomness, so the same input always yields the same output.
func OrderActiveQueue(tasks []models.Task, now time.Time) []models.Task {
	ordered := make([]models.Task, len(tasks))
	copy(ordered, tasks)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]

		aOverdue, bOverdue := a.IsOverdue(now), b.IsOverdue(now)
		if aOverdue != bOverdue {
			return aOverdue
		}

		aStale, bStale := a.IsStale(now, constants.StaleAgeDays), b.IsStale(now, constants.StaleAgeDays)
		if aStale != bStale {
			return aStale
		}

		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID < b.ID
	})

	return ordered
}

// PickBest scores every candidate and returns the single recommended task.
// The jitter source is seeded per call so callers (and tests) control the
// tie-break. Returns false on empty input; a sole candidate is returned
// directly without scoring.
func PickBest(tasks []models.Task, now time.Time, currentEnergy models.EnergyLevel, seed int64) (models.Task, bool) {
	if len(tasks) == 0 {
		return models.Task{}, false
	}
	if len(tasks) == 1 {
		return tasks[0], true
	}

	rng := rand.New(rand.NewSource(seed))

	best := tasks[0]
	bestScore := Score(tasks[0], now, currentEnergy) + rng.Float64()*2
	for _, t := range tasks[1:] {
		score := Score(t, now, currentEnergy) + rng.Float64()*2
		if score > bestScore {
			best = t
			bestScore = score
		}
	}
	return best, true
}

// Score is the additive recommendation score, without jitter. Each term is
// independent so tests can assert them one at a time.
func Score(t models.Task, now time.Time, currentEnergy models.EnergyLevel) float64 {
	score := overdueScore(t, now)
	score += dueTodayScore(t, now)
	score += stalenessScore(t, now)
	score += scheduleProximityScore(t, now)
	score += energyScore(t, currentEnergy)
	score += quickWinScore(t, now)
	score += frictionScore(t)
	return score
}

func overdueScore(t models.Task, now time.Time) float64 {
	if !t.IsOverdue(now) {
		return 0
	}
	var since time.Time
	if t.Status == models.StatusSnoozed {
		since = *t.SnoozedUntil
	} else {
		since = *t.DueDate
	}
	hoursOverdue := now.Sub(since).Hours()
	score := 30 + hoursOverdue
	if score > 50 {
		return 50
	}
	return score
}

func dueTodayScore(t models.Task, now time.Time) float64 {
	if t.IsDueToday(now) {
		return 20
	}
	return 0
}

func stalenessScore(t models.Task, now time.Time) float64 {
	if t.Status != models.StatusActive {
		return 0
	}
	age := float64(t.AgeDays(now))
	switch {
	case age >= constants.VeryStaleAgeDays:
		return 2 * age
	case age >= constants.StaleAgeDays:
		return 1.5 * age
	default:
		return 0
	}
}

func scheduleProximityScore(t models.Task, now time.Time) float64 {
	if t.ScheduledTime == nil {
		return 0
	}
	distance := t.ScheduledTime.Sub(now)
	if distance < 0 {
		distance = -distance
	}
	switch {
	case distance <= time.Hour:
		return 15
	case distance <= 2*time.Hour:
		return 8
	default:
		return 0
	}
}

func energyScore(t models.Task, currentEnergy models.EnergyLevel) float64 {
	if currentEnergy == "" {
		// No energy context: short tasks still get a nudge.
		if t.EstimatedMinutes > 0 && t.EstimatedMinutes <= constants.QuickWinMinutes {
			return 8
		}
		return 0
	}
	if t.EnergyLevel == "" || t.EnergyLevel != currentEnergy {
		return 0
	}
	// Easy tasks when the user is tired earn extra.
	if currentEnergy == models.EnergyLow {
		return 12
	}
	return 10
}

func quickWinScore(t models.Task, now time.Time) float64 {
	if t.EstimatedMinutes > 0 && t.EstimatedMinutes <= constants.QuickWinMinutes &&
		now.Hour() >= constants.QuickWinAfterHour {
		return 5
	}
	return 0
}

func frictionScore(t models.Task) float64 {
	score := 0.0
	if t.ActionTarget != "" {
		score += 3
	}
	if t.DraftText != "" {
		score += 4
	}
	return score
}

// EnergyBucket maps an hour of day onto the default energy level used when
// the caller has no explicit signal.
func EnergyBucket(hour int) models.EnergyLevel {
	switch {
	case hour >= 6 && hour <= 11:
		return models.EnergyHigh
	case hour >= 12 && hour <= 14:
		return models.EnergyMedium
	case hour >= 15 && hour <= 17:
		return models.EnergyHigh
	case hour >= 18 && hour <= 20:
		return models.EnergyMedium
	default:
		return models.EnergyLow
	}
}
