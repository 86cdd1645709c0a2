package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/runner"
)

type WatchCmd struct {
	SyncInterval     time.Duration `default:"2m" help:"How often to attempt a sync."`
	GenerateInterval time.Duration `default:"15m" help:"How often to check routines for due instances."`
	NoSync           bool          `help:"Run without syncing, generation only."`
}

// Run keeps the engine's periodic triggers alive in the foreground until
// interrupted. Sync failures are logged and retried on the next tick.
func (c *WatchCmd) Run(appCtx *Context) error {
	if err := appCtx.DB.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New()

	if err := r.Register(runner.Job{
		Name:       "generate",
		Interval:   c.GenerateInterval,
		Timeout:    30 * time.Second,
		RunOnStart: true,
		Run: func(context.Context) error {
			_, err := appCtx.Schedule.GenerateForToday()
			return err
		},
	}); err != nil {
		return err
	}

	if !c.NoSync {
		reconciler, closeRemote, err := appCtx.Reconciler(ctx)
		if err != nil {
			// Watch is still useful offline; keep generating.
			logger.Warn("Sync disabled for this session", "error", err)
		} else {
			defer closeRemote()
			if err := r.Register(runner.Job{
				Name:       "sync",
				Interval:   c.SyncInterval,
				Timeout:    60 * time.Second,
				RunOnStart: true,
				Run: func(jobCtx context.Context) error {
					_, err := reconciler.Sync(jobCtx)
					return err
				},
			}); err != nil {
				return err
			}
		}
	}

	if err := r.Start(ctx); err != nil {
		return err
	}
	fmt.Println("Watching (ctrl-c to stop)")

	<-ctx.Done()
	return r.Stop(5 * time.Second)
}
