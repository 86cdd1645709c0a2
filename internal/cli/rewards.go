package cli

import (
	"fmt"

	"github.com/nudgelabs/nudge-core/internal/reward"
)

type RewardsCmd struct {
	Spend int `help:"Spend points from the balance."`
}

func (c *RewardsCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(); err != nil {
		return err
	}

	if c.Spend > 0 {
		before, err := ctx.Rewards.Current()
		if err != nil {
			return err
		}
		if c.Spend > before.Balance {
			return fmt.Errorf("cannot spend %d: balance is %d", c.Spend, before.Balance)
		}
		ledger, err := ctx.Rewards.SpendBalance(c.Spend)
		if err != nil {
			return err
		}
		fmt.Printf("Spent %d points, %d remaining\n", c.Spend, ledger.Balance)
		return nil
	}

	ledger, err := ctx.Rewards.Snapshot()
	if err != nil {
		return err
	}

	fmt.Printf("Balance:   %d points\n", ledger.Balance)
	fmt.Printf("Lifetime:  %d points (level %d)\n", ledger.LifetimeEarned, ledger.Level())
	fmt.Printf("Streak:    %d day(s), best %d\n", ledger.CurrentStreak, ledger.LongestStreak)
	fmt.Printf("Today:     %d task(s) completed\n", ledger.TasksCompletedToday)
	if ledger.StreakFreezesAvailable > 0 {
		fmt.Printf("Freezes:   %d\n", ledger.StreakFreezesAvailable)
	}

	if next := nextMilestone(ledger.LifetimeEarned); next > 0 {
		fmt.Printf("Next milestone: %d (%d to go)\n", next, next-ledger.LifetimeEarned)
	}
	return nil
}

func nextMilestone(lifetimeEarned int) int {
	for _, m := range reward.MilestoneThresholds {
		if lifetimeEarned < m {
			return m
		}
	}
	return 0
}
