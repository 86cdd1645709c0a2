package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/nudgelabs/nudge-core/internal/constants"
	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/reward"
	"github.com/nudgelabs/nudge-core/internal/storage"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

// Result summarizes one sync attempt. ConflictsIgnored counts local edits
// discarded in favor of a strictly newer remote version; that is an expected
// outcome of last-writer-wins, not a failure.
type Result struct {
	TasksPulled      int
	TasksApplied     int
	TasksPushed      int
	ConflictsIgnored int
	LedgerApplied    bool
	LedgerPushed     bool
	LedgerThrottled  bool
}

// Reconciler pulls remote deltas since the per-collection checkpoint, merges
// them whole-record by the greater UpdatedAt, pushes local deltas, and
// advances the checkpoint only after both directions succeed. A failed or
// cancelled attempt leaves the checkpoint untouched, so the next attempt
// reprocesses the same window; the LWW merge makes that reprocessing
// idempotent.
type Reconciler struct {
	tasks          *taskstore.Store
	ledger         *reward.Service
	db             storage.Provider
	remote         RemoteStore
	nowFn          func() time.Time
	lastLedgerPush time.Time
}

func New(tasks *taskstore.Store, ledger *reward.Service, db storage.Provider, remote RemoteStore) *Reconciler {
	return &Reconciler{tasks: tasks, ledger: ledger, db: db, remote: remote, nowFn: time.Now}
}

// NewWithClock injects a clock for tests.
func NewWithClock(tasks *taskstore.Store, ledger *reward.Service, db storage.Provider, remote RemoteStore, nowFn func() time.Time) *Reconciler {
	return &Reconciler{tasks: tasks, ledger: ledger, db: db, remote: remote, nowFn: nowFn}
}

// Sync runs one pull+push round-trip per collection. Cancelling the context
// aborts between steps without advancing any checkpoint.
func (r *Reconciler) Sync(ctx context.Context) (Result, error) {
	var res Result
	if err := r.syncTasks(ctx, &res); err != nil {
		return res, err
	}
	if err := r.syncLedger(ctx, &res); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Reconciler) syncTasks(ctx context.Context, res *Result) error {
	cp, err := r.db.GetCheckpoint(constants.CollectionTasks)
	if err != nil {
		return err
	}
	start := r.nowFn()

	// Pull.
	if err := ctx.Err(); err != nil {
		return err
	}
	remoteRecs, err := r.remote.ListSince(ctx, constants.CollectionTasks, cp.LastSyncedAt)
	if err != nil {
		return fmt.Errorf("%w: pull tasks: %v", errs.ErrRemoteUnavailable, err)
	}
	res.TasksPulled = len(remoteRecs)

	// Stamps applied during this pull; the push below skips them so a
	// freshly-pulled record is not uploaded straight back.
	pulledStamps := make(map[string]time.Time, len(remoteRecs))
	for _, rec := range remoteRecs {
		remoteTask, err := decodeTask(rec)
		if err != nil {
			return fmt.Errorf("decode remote task %s: %w", rec.ID, err)
		}

		local, err := r.tasks.Get(rec.ID)
		if errs.Is(err, errs.ErrNotFound) {
			if err := r.tasks.ApplyRemote(remoteTask); err != nil {
				return err
			}
			res.TasksApplied++
			pulledStamps[rec.ID] = remoteTask.UpdatedAt
			continue
		}
		if err != nil {
			return err
		}

		// Whole-record LWW: a newer remote version wins in full, even when
		// the concurrent local edit touched a different field.
		if remoteTask.UpdatedAt.After(local.UpdatedAt) {
			if local.UpdatedAt.After(cp.LastSyncedAt) {
				res.ConflictsIgnored++
				logger.Info("Remote version supersedes local edit",
					"task", rec.ID, "local", local.UpdatedAt, "remote", remoteTask.UpdatedAt)
			}
			if err := r.tasks.ApplyRemote(remoteTask); err != nil {
				return err
			}
			res.TasksApplied++
			pulledStamps[rec.ID] = remoteTask.UpdatedAt
		}
	}

	// Push.
	if err := ctx.Err(); err != nil {
		return err
	}
	localTasks, err := r.tasks.ListUpdatedSince(cp.LastSyncedAt)
	if err != nil {
		return err
	}
	records := make([]Record, 0, len(localTasks))
	for _, t := range localTasks {
		if stamp, ok := pulledStamps[t.ID]; ok && t.UpdatedAt.Equal(stamp) {
			continue
		}
		rec, err := encodeTask(t)
		if err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID, err)
		}
		records = append(records, rec)
	}
	if len(records) > 0 {
		if err := r.remote.Upsert(ctx, constants.CollectionTasks, records); err != nil {
			return fmt.Errorf("%w: push tasks: %v", errs.ErrRemoteUnavailable, err)
		}
		res.TasksPushed = len(records)
	}

	return r.db.SaveCheckpoint(models.SyncCheckpoint{
		Collection:   constants.CollectionTasks,
		LastSyncedAt: start,
	})
}

func (r *Reconciler) syncLedger(ctx context.Context, res *Result) error {
	cp, err := r.db.GetCheckpoint(constants.CollectionLedger)
	if err != nil {
		return err
	}
	start := r.nowFn()

	// Pull. Never throttled.
	if err := ctx.Err(); err != nil {
		return err
	}
	remoteRecs, err := r.remote.ListSince(ctx, constants.CollectionLedger, cp.LastSyncedAt)
	if err != nil {
		return fmt.Errorf("%w: pull ledger: %v", errs.ErrRemoteUnavailable, err)
	}
	var appliedStamp time.Time
	for _, rec := range remoteRecs {
		remoteLedger, err := decodeLedger(rec)
		if err != nil {
			return fmt.Errorf("decode remote ledger: %w", err)
		}
		applied, err := r.ledger.ApplyRemote(remoteLedger)
		if err != nil {
			return err
		}
		if applied {
			res.LedgerApplied = true
		}
		// Track the newest pulled version even when it lost the merge, so
		// the push below never echoes a version the remote already holds.
		if remoteLedger.UpdatedAt.After(appliedStamp) {
			appliedStamp = remoteLedger.UpdatedAt
		}
	}

	// Push: whole-record singleton upsert, spaced out so rapid local
	// mutations do not thrash uploads.
	if err := ctx.Err(); err != nil {
		return err
	}
	local, changed, err := r.ledger.UpdatedSince(cp.LastSyncedAt)
	if err != nil {
		return err
	}
	if changed && local.UpdatedAt.Equal(appliedStamp) {
		// The only change is the version we just pulled; echoing it back
		// would be a pointless upload.
		changed = false
	}
	if changed {
		if start.Sub(r.lastLedgerPush) < constants.LedgerPushInterval {
			// Leave the checkpoint alone so the next attempt retries the push.
			res.LedgerThrottled = true
			return nil
		}
		rec, err := encodeLedger(constants.LedgerRecordID, local)
		if err != nil {
			return fmt.Errorf("encode ledger: %w", err)
		}
		if err := r.remote.Upsert(ctx, constants.CollectionLedger, []Record{rec}); err != nil {
			return fmt.Errorf("%w: push ledger: %v", errs.ErrRemoteUnavailable, err)
		}
		r.lastLedgerPush = start
		res.LedgerPushed = true
	}

	return r.db.SaveCheckpoint(models.SyncCheckpoint{
		Collection:   constants.CollectionLedger,
		LastSyncedAt: start,
	})
}
