// Package reward maintains the gamification ledger: currency, level, streak,
// and milestone state derived from completion events.
package reward

import (
	"time"

	"github.com/nudgelabs/nudge-core/internal/constants"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

// MilestoneThresholds are the lifetime-earnings marks that pay a one-time
// bonus. Each bonus is half the threshold and also grants one streak freeze.
var MilestoneThresholds = []int{100, 250, 500, 1000, 2500, 5000, 10000}

// MilestoneBonus returns the one-time payout for crossing a threshold.
func MilestoneBonus(threshold int) int {
	return threshold / 2
}

// Breakdown itemizes a single completion's payout.
type Breakdown struct {
	Base           int
	StreakDoubled  bool
	AllClearBonus  int
	MilestonesHit  []int
	MilestoneBonus int
	FreezeConsumed bool
	Total          int
}

// ApplyCompletion is the pure ledger transition for one completion event.
// It never touches storage; the Service persists the result atomically.
func ApplyCompletion(ledger models.Ledger, task models.Task, now time.Time, noActiveLeft bool) (models.Ledger, Breakdown) {
	today := utils.DayString(now)
	var b Breakdown

	ensureDailyReset(&ledger, today)

	// Streak update.
	switch gap := completionGapDays(ledger, now); {
	case ledger.LastCompletionDate == "":
		ledger.CurrentStreak = 1
	case gap == 0:
		// Same day: streak unchanged.
	case gap == 1:
		ledger.CurrentStreak++
	case gap == constants.StreakFreezeGapDays && ledger.StreakFreezesAvailable > 0:
		ledger.StreakFreezesAvailable--
		ledger.CurrentStreak++
		b.FreezeConsumed = true
	default:
		ledger.CurrentStreak = 1
	}
	if ledger.CurrentStreak > ledger.LongestStreak {
		ledger.LongestStreak = ledger.CurrentStreak
	}

	// Base tier, doubled on a hot streak.
	b.Base = Classify(task, now)
	if ledger.CurrentStreak >= constants.StreakMultiplierMin {
		b.Base *= 2
		b.StreakDoubled = true
	}

	if noActiveLeft {
		b.AllClearBonus = constants.AllClearBonus
	}

	// Milestones: the celebrated set is what makes payout at-most-once even
	// when the same logical completion is retried against persisted state.
	running := ledger.LifetimeEarned + b.Base + b.AllClearBonus
	for _, threshold := range MilestoneThresholds {
		if running < threshold || ledger.HasCelebrated(threshold) {
			continue
		}
		bonus := MilestoneBonus(threshold)
		b.MilestonesHit = append(b.MilestonesHit, threshold)
		b.MilestoneBonus += bonus
		running += bonus
		ledger.Celebrate(threshold)
		ledger.StreakFreezesAvailable++
	}

	b.Total = b.Base + b.AllClearBonus + b.MilestoneBonus

	ledger.Balance += b.Total
	ledger.LifetimeEarned += b.Total
	ledger.TasksCompletedToday++
	ledger.LastCompletionDate = today

	return ledger, b
}

// EnsureDailyReset zeroes per-day counters when the day has rolled over. The
// reset is pull-based: it runs on first access of the day, so it is correct
// even when the process was suspended across the boundary.
func EnsureDailyReset(ledger models.Ledger, now time.Time) (models.Ledger, bool) {
	today := utils.DayString(now)
	changed := ledger.LastDailyResetDate != today
	ensureDailyReset(&ledger, today)
	return ledger, changed
}

func ensureDailyReset(ledger *models.Ledger, today string) {
	if ledger.LastDailyResetDate == today {
		return
	}
	ledger.TasksCompletedToday = 0
	ledger.LastDailyResetDate = today
}

func completionGapDays(ledger models.Ledger, now time.Time) int {
	if ledger.LastCompletionDate == "" {
		return 0
	}
	last, err := utils.ParseDay(ledger.LastCompletionDate)
	if err != nil {
		return 0
	}
	// Compare on parsed day boundaries so the location of `now` cannot skew
	// the gap across a midnight.
	cur, err := utils.ParseDay(utils.DayString(now))
	if err != nil {
		return 0
	}
	return utils.CalendarDaysBetween(last, cur)
}
