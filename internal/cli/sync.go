package cli

import (
	"context"
	"fmt"
	"time"
)

type SyncCmd struct {
	Timeout time.Duration `default:"60s" help:"Abort the attempt after this long."`
}

func (c *SyncCmd) Run(appCtx *Context) error {
	if err := appCtx.DB.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	reconciler, closeRemote, err := appCtx.Reconciler(ctx)
	if err != nil {
		return err
	}
	defer closeRemote()

	res, err := reconciler.Sync(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Synced: pulled %d, applied %d, pushed %d task(s)\n",
		res.TasksPulled, res.TasksApplied, res.TasksPushed)
	if res.ConflictsIgnored > 0 {
		fmt.Printf("%d local edit(s) superseded by newer remote versions\n", res.ConflictsIgnored)
	}
	switch {
	case res.LedgerPushed && res.LedgerApplied:
		fmt.Println("Ledger: pulled and pushed")
	case res.LedgerPushed:
		fmt.Println("Ledger: pushed")
	case res.LedgerApplied:
		fmt.Println("Ledger: pulled")
	case res.LedgerThrottled:
		fmt.Println("Ledger: push deferred (recently uploaded)")
	}
	return nil
}
