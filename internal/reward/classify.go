package reward

import (
	"time"

	"github.com/nudgelabs/nudge-core/internal/constants"
	"github.com/nudgelabs/nudge-core/internal/models"
)

// Reward tiers, smallest to largest.
const (
	TierQuick    = 2
	TierLight    = 3
	TierStandard = 5
	TierDeep     = 8
)

// Classify picks the base reward tier for a completed task. Signals are
// consulted in priority order; the first one that applies wins.
func Classify(task models.Task, now time.Time) int {
	// Explicit high priority beats everything.
	if task.Priority == models.PriorityHigh {
		return TierDeep
	}

	// Explicit duration estimate.
	if task.EstimatedMinutes > 0 {
		switch {
		case task.EstimatedMinutes >= 45:
			return TierDeep
		case task.EstimatedMinutes >= 20:
			return TierStandard
		case task.EstimatedMinutes <= constants.QuickWinMinutes:
			return TierQuick
		default:
			return TierLight
		}
	}

	// Explicit energy demand.
	switch task.EnergyLevel {
	case models.EnergyHigh:
		return TierDeep
	case models.EnergyMedium:
		return TierStandard
	case models.EnergyLow:
		return TierQuick
	}

	// Heuristics: calls and emails carry friction, and finally clearing a
	// long-avoided task earns more than a same-day one.
	if task.ActionType == models.ActionCall || task.ActionType == models.ActionEmail {
		return TierStandard
	}
	if task.AgeDays(now) >= constants.StaleAgeDays {
		return TierStandard
	}

	return TierQuick
}
