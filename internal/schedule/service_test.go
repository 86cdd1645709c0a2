package schedule

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/storage/sqlite"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
)

func setupService(t *testing.T, now time.Time) (*Service, *taskstore.Store, *sqlite.Store) {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := func() time.Time { return now }
	tasks := taskstore.NewWithClock(store, clock)
	return NewServiceWithClock(tasks, store, clock), tasks, store
}

func TestGenerateForToday_StampsAndDoesNotRepeat(t *testing.T) {
	now, _ := time.Parse("2006-01-02 15:04", "2025-12-31 07:00")
	svc, tasks, store := setupService(t, now)

	routine := models.Routine{
		ID: "r1", Name: "Morning", Repeat: models.RepeatDaily, IsActive: true,
		StartTime: "08:00",
		Steps: []models.Step{
			{Content: "Make coffee", EstimatedMinutes: 5},
			{Content: "Stretch"},
		},
	}
	if err := svc.SaveRoutine(routine); err != nil {
		t.Fatalf("failed to save routine: %v", err)
	}

	count, err := svc.GenerateForToday()
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 generated tasks, got %d", count)
	}

	// The routine is stamped, so a second trigger in the same day is a no-op.
	count, err = svc.GenerateForToday()
	if err != nil {
		t.Fatalf("second generation failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no tasks on second trigger, got %d", count)
	}

	stored, err := store.GetRoutine("r1")
	if err != nil {
		t.Fatalf("failed to load routine: %v", err)
	}
	if stored.LastGeneratedDate != "2025-12-31" {
		t.Errorf("routine stamp = %q, want 2025-12-31", stored.LastGeneratedDate)
	}

	active, err := tasks.Query(taskstore.Filter{Status: models.StatusActive})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active tasks, got %d", len(active))
	}
	if active[0].Content != "Make coffee" || active[1].Content != "Stretch" {
		t.Errorf("step order lost: %q then %q", active[0].Content, active[1].Content)
	}
}

func TestGenerateForToday_AppendsAfterExistingQueue(t *testing.T) {
	now, _ := time.Parse("2006-01-02 15:04", "2025-12-31 07:00")
	svc, tasks, _ := setupService(t, now)

	existing, err := tasks.Create(taskstore.CreateSpec{Content: "Existing task"})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := svc.SaveRoutine(models.Routine{
		ID: "r1", Name: "Evening", Repeat: models.RepeatDaily, IsActive: true,
		StartTime: "18:00",
		Steps:     []models.Step{{Content: "Tidy desk"}},
	}); err != nil {
		t.Fatalf("failed to save routine: %v", err)
	}

	if _, err := svc.GenerateForToday(); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	active, err := tasks.Query(taskstore.Filter{Status: models.StatusActive})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(active))
	}
	if active[0].ID != existing.ID {
		t.Errorf("generated task jumped the queue")
	}
	if active[1].SortOrder <= existing.SortOrder {
		t.Errorf("generated sort order %d not after existing %d",
			active[1].SortOrder, existing.SortOrder)
	}
}
