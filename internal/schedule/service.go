package schedule

import (
	"sync"
	"time"

	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/storage"
	"github.com/nudgelabs/nudge-core/internal/taskstore"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

// Service wraps check-eligibility, generate, persist, and stamp in one
// critical section so concurrent foreground triggers cannot double-generate.
type Service struct {
	mu    sync.Mutex
	tasks *taskstore.Store
	db    storage.Provider
	nowFn func() time.Time
}

func NewService(tasks *taskstore.Store, db storage.Provider) *Service {
	return &Service{tasks: tasks, db: db, nowFn: time.Now}
}

// NewServiceWithClock injects a clock for tests.
func NewServiceWithClock(tasks *taskstore.Store, db storage.Provider, nowFn func() time.Time) *Service {
	return &Service{tasks: tasks, db: db, nowFn: nowFn}
}

// GenerateForToday expands every eligible routine into today's task
// instances and stamps the routines, returning how many tasks were created.
// Safe to invoke from multiple triggers concurrently.
func (s *Service) GenerateForToday() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.nowFn()

	routines, err := s.db.ListRoutines()
	if err != nil {
		return 0, err
	}

	maxOrder, err := s.tasks.MaxSortOrder()
	if err != nil {
		return 0, err
	}

	generated := GenerateDueInstances(routines, nil, today, maxOrder)
	if len(generated) == 0 {
		return 0, nil
	}

	if err := s.tasks.CreateGenerated(generated); err != nil {
		return 0, err
	}

	// Stamp after the tasks are durably written. A crash between the two
	// leaves duplicates possible on the next trigger, which is the safer
	// failure direction compared to silently losing a day's instances.
	stamped := map[string]bool{}
	for _, t := range generated {
		stamped[t.RoutineID] = true
	}
	day := utils.DayString(today)
	for _, r := range routines {
		if !stamped[r.ID] {
			continue
		}
		r.LastGeneratedDate = day
		r.UpdatedAt = today
		if err := s.db.PutRoutine(r); err != nil {
			return len(generated), err
		}
	}

	logger.Info("Generated routine instances", "count", len(generated), "day", day)
	return len(generated), nil
}

// Routines returns all stored routines.
func (s *Service) Routines() ([]models.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.ListRoutines()
}

// SaveRoutine creates or updates a routine template.
func (s *Service) SaveRoutine(r models.Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	return s.db.PutRoutine(r)
}

// DeleteRoutine removes a routine template. Generated task instances keep
// their provenance link but are otherwise unaffected.
func (s *Service) DeleteRoutine(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.RemoveRoutine(id)
}
