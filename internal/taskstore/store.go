// Package taskstore is the single-writer aggregate over the task collection.
// All mutations funnel through one mutex so updated-at stamping and
// sort-order appends never race, which is what keeps last-writer-wins
// comparisons unambiguous for locally-originated writes.
package taskstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/storage"
)

// Store serializes access to the task collection.
type Store struct {
	mu    sync.Mutex
	db    storage.Provider
	nowFn func() time.Time
}

func New(db storage.Provider) *Store {
	return &Store{db: db, nowFn: time.Now}
}

// NewWithClock injects a clock for tests.
func NewWithClock(db storage.Provider, nowFn func() time.Time) *Store {
	return &Store{db: db, nowFn: nowFn}
}

// CreateSpec carries the caller-settable fields of a new task.
type CreateSpec struct {
	Content          string
	Emoji            string
	DueDate          *time.Time
	Priority         models.Priority
	EnergyLevel      models.EnergyLevel
	EstimatedMinutes int
	ScheduledTime    *time.Time
	ActionType       models.ActionType
	ActionTarget     string
	ContactName      string
	DraftText        string
	RoutineID        string
	SourceType       models.SourceType
}

// Filter selects tasks for Query. Zero values match everything.
type Filter struct {
	Status  models.TaskStatus
	Keyword string
	Limit   int
}

// Create validates the spec and appends a new active task at the back of the
// queue.
func (s *Store) Create(spec CreateSpec) (models.Task, error) {
	if strings.TrimSpace(spec.Content) == "" {
		return models.Task{}, errs.Validation("task content must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maxOrder, err := s.maxSortOrderLocked()
	if err != nil {
		return models.Task{}, err
	}

	now := s.nowFn()
	sourceType := spec.SourceType
	if sourceType == "" {
		sourceType = models.SourceManual
	}
	task := models.Task{
		ID:               uuid.NewString(),
		Content:          strings.TrimSpace(spec.Content),
		Emoji:            spec.Emoji,
		Status:           models.StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
		DueDate:          spec.DueDate,
		SortOrder:        maxOrder + 1,
		Priority:         spec.Priority,
		EnergyLevel:      spec.EnergyLevel,
		EstimatedMinutes: spec.EstimatedMinutes,
		ScheduledTime:    spec.ScheduledTime,
		ActionType:       spec.ActionType,
		ActionTarget:     spec.ActionTarget,
		ContactName:      spec.ContactName,
		DraftText:        spec.DraftText,
		RoutineID:        spec.RoutineID,
		SourceType:       sourceType,
	}

	if err := s.db.PutTask(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// CreateGenerated persists routine-generated tasks as one batch under the
// store lock, so concurrent generation triggers cannot interleave sort
// orders. Tasks arrive fully formed from the schedule engine apart from
// their timestamps.
func (s *Store) CreateGenerated(tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	for i := range tasks {
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
		if err := s.db.PutTask(tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a single task by id.
func (s *Store) Get(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.GetTask(id)
}

// Update applies a mutation and stamps a strictly increasing UpdatedAt.
func (s *Store) Update(id string, mutate func(*models.Task)) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, mutate)
}

func (s *Store) updateLocked(id string, mutate func(*models.Task)) (models.Task, error) {
	task, err := s.db.GetTask(id)
	if err != nil {
		return models.Task{}, err
	}

	mutate(&task)
	s.touch(&task)

	if err := s.db.PutTask(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// touch advances UpdatedAt. When the wall clock has not moved past the
// record's current stamp (rapid successive writes, clock skew) the stamp is
// nudged forward one logical tick instead, preserving strict monotonicity.
func (s *Store) touch(task *models.Task) {
	now := s.nowFn()
	if !now.After(task.UpdatedAt) {
		now = task.UpdatedAt.Add(time.Microsecond)
	}
	task.UpdatedAt = now
}

// MarkDone completes a task, stamping CompletedAt.
func (s *Store) MarkDone(id string) (models.Task, error) {
	return s.Update(id, func(t *models.Task) {
		now := s.nowFn()
		t.Status = models.StatusDone
		t.CompletedAt = &now
	})
}

// Snooze hides a task until the given wake time.
func (s *Store) Snooze(id string, until time.Time) (models.Task, error) {
	if until.IsZero() {
		return models.Task{}, errs.Validation("snooze wake time must be set")
	}
	return s.Update(id, func(t *models.Task) {
		t.Status = models.StatusSnoozed
		t.SnoozedUntil = &until
	})
}

// Resurface wakes a snoozed task back into the active queue.
func (s *Store) Resurface(id string) (models.Task, error) {
	return s.Update(id, func(t *models.Task) {
		t.Status = models.StatusActive
		t.SnoozedUntil = nil
	})
}

// Drop soft-removes a task. This is the default removal path; it keeps the
// record around so reward counters and sync tombstoning stay consistent.
func (s *Store) Drop(id string) (models.Task, error) {
	return s.Update(id, func(t *models.Task) {
		t.Status = models.StatusDropped
	})
}

// MoveToBack re-sorts a skipped task to the end of the manual queue.
func (s *Store) MoveToBack(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxOrder, err := s.maxSortOrderLocked()
	if err != nil {
		return models.Task{}, err
	}
	return s.updateLocked(id, func(t *models.Task) {
		t.SortOrder = maxOrder + 1
	})
}

// Delete hard-removes a task. Explicit user action only; Drop is the normal
// path.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.RemoveTask(id)
}

// Query returns raw matches sorted by sort order (ties by id). Overdue and
// staleness promotion is the priority engine's job, not the store's.
func (s *Store) Query(f Filter) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.db.ListTasks()
	if err != nil {
		return nil, err
	}

	keyword := strings.ToLower(f.Keyword)
	var matches []models.Task
	for _, t := range tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(t.Content), keyword) {
			continue
		}
		matches = append(matches, t)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].SortOrder != matches[j].SortOrder {
			return matches[i].SortOrder < matches[j].SortOrder
		}
		return matches[i].ID < matches[j].ID
	})

	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}
	return matches, nil
}

// MaxSortOrder returns the highest sort order among active tasks, 0 if none.
func (s *Store) MaxSortOrder() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxSortOrderLocked()
}

func (s *Store) maxSortOrderLocked() (int, error) {
	tasks, err := s.db.ListTasks()
	if err != nil {
		return 0, err
	}
	max := 0
	for _, t := range tasks {
		if t.Status == models.StatusActive && t.SortOrder > max {
			max = t.SortOrder
		}
	}
	return max, nil
}

// ListUpdatedSince feeds the sync reconciler's push side.
func (s *Store) ListUpdatedSince(since time.Time) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.ListTasksUpdatedSince(since)
}

// ApplyRemote writes a remote task version wholesale, keeping the remote
// UpdatedAt. The reconciler only calls this when the remote stamp is
// strictly newer, so monotonicity holds.
func (s *Store) ApplyRemote(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.PutTask(task)
}

// ActiveCount reports how many active tasks remain; the reward service uses
// it for the all-clear bonus.
func (s *Store) ActiveCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.db.ListTasks()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, t := range tasks {
		if t.Status == models.StatusActive {
			count++
		}
	}
	return count, nil
}
