package cli

import (
	"fmt"
	"strings"
)

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task id (or unique prefix)."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	task, err := findTask(ctx.Tasks, c.ID)
	if err != nil {
		return err
	}

	done, err := ctx.Tasks.MarkDone(task.ID)
	if err != nil {
		return err
	}

	// Reward after the completion is durable, so a crash mid-way loses the
	// payout but never double-pays.
	remaining, err := ctx.Tasks.ActiveCount()
	if err != nil {
		return err
	}
	ledger, breakdown, err := ctx.Rewards.RecordCompletion(done, remaining == 0)
	if err != nil {
		return err
	}

	fmt.Printf("Done: %s\n", done.Content)
	fmt.Printf("+%d points", breakdown.Total)

	var notes []string
	if breakdown.StreakDoubled {
		notes = append(notes, fmt.Sprintf("%d-day streak, doubled", ledger.CurrentStreak))
	}
	if breakdown.AllClearBonus > 0 {
		notes = append(notes, "all clear!")
	}
	if breakdown.FreezeConsumed {
		notes = append(notes, "streak freeze used")
	}
	for _, m := range breakdown.MilestonesHit {
		notes = append(notes, fmt.Sprintf("milestone %d reached", m))
	}
	if len(notes) > 0 {
		fmt.Printf(" (%s)", strings.Join(notes, ", "))
	}
	fmt.Printf("\nBalance: %d | Streak: %d | Level: %d\n",
		ledger.Balance, ledger.CurrentStreak, ledger.Level())
	return nil
}
