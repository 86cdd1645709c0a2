package syncer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nudgelabs/nudge-core/internal/constants"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/reward"
	"github.com/nudgelabs/nudge-core/internal/storage/sqlite"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

// replica bundles one device's full local state around a shared remote.
type replica struct {
	clock      time.Time
	db         *sqlite.Store
	tasks      *taskstore.Store
	ledger     *reward.Service
	reconciler *Reconciler
}

func newReplica(t *testing.T, remote RemoteStore, start time.Time) *replica {
	t.Helper()

	db := sqlite.NewStore(filepath.Join(t.TempDir(), "replica.db"))
	if err := db.Init(); err != nil {
		t.Fatalf("failed to initialize replica store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	r := &replica{clock: start, db: db}
	nowFn := func() time.Time { return r.clock }
	r.tasks = taskstore.NewWithClock(db, nowFn)
	r.ledger = reward.NewServiceWithClock(db, nowFn)
	r.reconciler = NewWithClock(r.tasks, r.ledger, db, remote, nowFn)
	return r
}

func (r *replica) at(t *testing.T, value string) {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatal(err)
	}
	r.clock = parsed.UTC()
}

func (r *replica) sync(t *testing.T) Result {
	t.Helper()
	res, err := r.reconciler.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	return res
}

func TestSync_TwoReplicasConverge(t *testing.T) {
	remote := NewMemoryRemote()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	a := newReplica(t, remote, base)
	b := newReplica(t, remote, base)

	// A creates a task and pushes it.
	a.at(t, "2025-06-10 10:00:00")
	created, err := a.tasks.Create(taskstore.CreateSpec{Content: "Water the plants"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	a.at(t, "2025-06-10 10:01:00")
	res := a.sync(t)
	if res.TasksPushed != 1 {
		t.Fatalf("expected 1 pushed task, got %d", res.TasksPushed)
	}

	// B pulls it. The same sync must not upload the freshly-pulled record
	// straight back.
	b.at(t, "2025-06-10 10:02:00")
	res = b.sync(t)
	if res.TasksApplied != 1 {
		t.Fatalf("expected 1 applied task, got %d", res.TasksApplied)
	}
	if res.TasksPushed != 0 {
		t.Errorf("B echoed the pulled task back, pushed %d", res.TasksPushed)
	}
	got, err := b.tasks.Get(created.ID)
	if err != nil {
		t.Fatalf("task missing on replica B: %v", err)
	}
	if got.Content != "Water the plants" {
		t.Errorf("content %q", got.Content)
	}

	// B edits, pushes; A pulls the newer version.
	b.at(t, "2025-06-10 10:03:00")
	if _, err := b.tasks.Update(created.ID, func(m *models.Task) {
		m.Content = "Water the plants thoroughly"
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	b.at(t, "2025-06-10 10:04:00")
	b.sync(t)

	a.at(t, "2025-06-10 10:05:00")
	res = a.sync(t)
	if res.TasksApplied != 1 {
		t.Fatalf("expected A to apply B's edit, applied %d", res.TasksApplied)
	}
	if res.TasksPushed != 0 {
		t.Errorf("A echoed B's edit back, pushed %d", res.TasksPushed)
	}

	aTask, _ := a.tasks.Get(created.ID)
	bTask, _ := b.tasks.Get(created.ID)
	if aTask.Content != bTask.Content || !aTask.UpdatedAt.Equal(bTask.UpdatedAt) {
		t.Errorf("replicas diverged: %q@%v vs %q@%v",
			aTask.Content, aTask.UpdatedAt, bTask.Content, bTask.UpdatedAt)
	}
}

func TestSync_ConcurrentEditsLastWriterWins(t *testing.T) {
	remote := NewMemoryRemote()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	a := newReplica(t, remote, base)
	b := newReplica(t, remote, base)

	// Seed both replicas with the same task.
	a.at(t, "2025-06-10 10:00:00")
	created, _ := a.tasks.Create(taskstore.CreateSpec{Content: "Original"})
	a.at(t, "2025-06-10 10:01:00")
	a.sync(t)
	b.at(t, "2025-06-10 10:02:00")
	b.sync(t)

	// Both edit offline; B's edit is later.
	a.at(t, "2025-06-10 10:06:00")
	a.tasks.Update(created.ID, func(m *models.Task) { m.Content = "A's edit" })
	b.at(t, "2025-06-10 10:07:00")
	b.tasks.Update(created.ID, func(m *models.Task) { m.Content = "B's edit" })

	b.at(t, "2025-06-10 10:08:00")
	b.sync(t)

	// A's pull finds a strictly newer remote version; A's own concurrent
	// edit is discarded whole and counted, not merged.
	a.at(t, "2025-06-10 10:09:00")
	res := a.sync(t)
	if res.ConflictsIgnored != 1 {
		t.Errorf("conflicts ignored = %d, want 1", res.ConflictsIgnored)
	}

	aTask, _ := a.tasks.Get(created.ID)
	if aTask.Content != "B's edit" {
		t.Errorf("content %q, want B's edit", aTask.Content)
	}

	// Another round settles both sides on the same version.
	b.at(t, "2025-06-10 10:10:00")
	b.sync(t)
	bTask, _ := b.tasks.Get(created.ID)
	if bTask.Content != "B's edit" || !bTask.UpdatedAt.Equal(aTask.UpdatedAt) {
		t.Errorf("replicas diverged after settling: %q@%v vs %q@%v",
			aTask.Content, aTask.UpdatedAt, bTask.Content, bTask.UpdatedAt)
	}
}

func TestSync_ReprocessingIsIdempotent(t *testing.T) {
	remote := NewMemoryRemote()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	a := newReplica(t, remote, base)

	a.at(t, "2025-06-10 10:00:00")
	created, _ := a.tasks.Create(taskstore.CreateSpec{Content: "Once"})
	a.at(t, "2025-06-10 10:01:00")
	a.sync(t)

	// Rewind the checkpoint as if the previous save never happened; the
	// window replays and the merge must not duplicate or regress anything.
	if err := a.db.SaveCheckpoint(models.SyncCheckpoint{
		Collection: constants.CollectionTasks,
	}); err != nil {
		t.Fatalf("checkpoint reset failed: %v", err)
	}
	a.at(t, "2025-06-10 10:02:00")
	res := a.sync(t)

	if res.TasksApplied != 0 {
		t.Errorf("replay applied %d tasks, want 0 (remote not newer)", res.TasksApplied)
	}
	all, _ := a.tasks.Query(taskstore.Filter{})
	if len(all) != 1 {
		t.Fatalf("replay duplicated the task: %d rows", len(all))
	}
	got, _ := a.tasks.Get(created.ID)
	if !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Errorf("replay moved the stamp: %v vs %v", got.UpdatedAt, created.UpdatedAt)
	}
}

type failingRemote struct{ err error }

func (f *failingRemote) ListSince(context.Context, string, time.Time) ([]Record, error) {
	return nil, f.err
}
func (f *failingRemote) Upsert(context.Context, string, []Record) error {
	return f.err
}

func TestSync_FailureLeavesCheckpointUntouched(t *testing.T) {
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	a := newReplica(t, &failingRemote{err: errors.New("connection refused")}, base)

	a.tasks.Create(taskstore.CreateSpec{Content: "Unsynced"})
	if _, err := a.reconciler.Sync(context.Background()); err == nil {
		t.Fatal("expected sync to fail")
	}

	cp, err := a.db.GetCheckpoint(constants.CollectionTasks)
	if err != nil {
		t.Fatalf("checkpoint read failed: %v", err)
	}
	if !cp.LastSyncedAt.IsZero() {
		t.Errorf("checkpoint advanced despite failure: %v", cp.LastSyncedAt)
	}
}

func TestSync_CancelledContextAborts(t *testing.T) {
	remote := NewMemoryRemote()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	a := newReplica(t, remote, base)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.reconciler.Sync(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	cp, _ := a.db.GetCheckpoint(constants.CollectionTasks)
	if !cp.LastSyncedAt.IsZero() {
		t.Errorf("checkpoint advanced despite cancellation: %v", cp.LastSyncedAt)
	}
}

func TestSync_LedgerPushAndThrottle(t *testing.T) {
	remote := NewMemoryRemote()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	a := newReplica(t, remote, base)

	// A completion dirties the ledger; the first sync uploads it.
	a.at(t, "2025-06-10 10:00:00")
	task, _ := a.tasks.Create(taskstore.CreateSpec{Content: "Quick one", EstimatedMinutes: 5})
	done, _ := a.tasks.MarkDone(task.ID)
	if _, _, err := a.ledger.RecordCompletion(done, true); err != nil {
		t.Fatalf("completion failed: %v", err)
	}

	a.at(t, "2025-06-10 10:00:30")
	res := a.sync(t)
	if !res.LedgerPushed {
		t.Fatal("first sync should push the dirty ledger")
	}
	firstStart := a.clock

	// Another mutation within the spacing window defers the upload and
	// leaves the ledger checkpoint where it was, so nothing is lost.
	a.at(t, "2025-06-10 10:00:35")
	if _, err := a.ledger.SpendBalance(1); err != nil {
		t.Fatalf("spend failed: %v", err)
	}
	a.at(t, "2025-06-10 10:00:36")
	res = a.sync(t)
	if res.LedgerPushed || !res.LedgerThrottled {
		t.Fatalf("expected a throttled push, got %+v", res)
	}
	cp, _ := a.db.GetCheckpoint(constants.CollectionLedger)
	if !cp.LastSyncedAt.Equal(firstStart) {
		t.Errorf("ledger checkpoint moved during throttle: %v, want %v",
			cp.LastSyncedAt, firstStart)
	}

	// Past the window the deferred change goes out.
	a.at(t, "2025-06-10 10:01:00")
	res = a.sync(t)
	if !res.LedgerPushed {
		t.Error("expected the deferred ledger push to go through")
	}
}

func TestSync_LedgerConvergesWithoutEcho(t *testing.T) {
	remote := NewMemoryRemote()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	a := newReplica(t, remote, base)
	b := newReplica(t, remote, base)

	a.at(t, "2025-06-10 10:00:00")
	task, _ := a.tasks.Create(taskstore.CreateSpec{Content: "Earn points", EstimatedMinutes: 5})
	done, _ := a.tasks.MarkDone(task.ID)
	a.ledger.RecordCompletion(done, true)

	a.at(t, "2025-06-10 10:00:30")
	a.sync(t)

	// B's pull applies the remote ledger; the same sync must not upload the
	// freshly-pulled version straight back.
	b.at(t, "2025-06-10 10:01:00")
	res := b.sync(t)
	if !res.LedgerApplied {
		t.Fatal("expected B to apply the remote ledger")
	}
	if res.LedgerPushed {
		t.Error("B echoed the pulled ledger back to the remote")
	}

	aLedger, _ := a.ledger.Current()
	bLedger, _ := b.ledger.Current()
	if aLedger.Balance != bLedger.Balance || aLedger.LifetimeEarned != bLedger.LifetimeEarned {
		t.Errorf("ledgers diverged: %+v vs %+v", aLedger, bLedger)
	}

	// The remote still holds A's version, untouched.
	rec, ok := remote.Get(constants.CollectionLedger, constants.LedgerRecordID)
	if !ok {
		t.Fatal("ledger record missing from remote")
	}
	if !rec.UpdatedAt.Equal(aLedger.UpdatedAt) {
		t.Errorf("remote ledger stamp %v, want %v", rec.UpdatedAt, aLedger.UpdatedAt)
	}

	// Replaying the window pulls the same record again, but the merge skips
	// it, so the result must not report an apply or echo a push.
	if err := b.db.SaveCheckpoint(models.SyncCheckpoint{
		Collection: constants.CollectionLedger,
	}); err != nil {
		t.Fatalf("checkpoint reset failed: %v", err)
	}
	b.at(t, "2025-06-10 10:02:00")
	res = b.sync(t)
	if res.LedgerApplied {
		t.Error("replayed pull reported a skipped merge as applied")
	}
	if res.LedgerPushed {
		t.Error("replayed pull echoed the ledger back")
	}
}
