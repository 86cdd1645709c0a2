package reward

import (
	"sync"
	"time"

	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/storage"
)

// Service is the single writer for the ledger singleton. Every transition
// runs read-apply-write under one mutex, so two concurrent completions can
// never interleave and lose a streak increment or a milestone flag.
type Service struct {
	mu    sync.Mutex
	db    storage.Provider
	nowFn func() time.Time
}

func NewService(db storage.Provider) *Service {
	return &Service{db: db, nowFn: time.Now}
}

// NewServiceWithClock injects a clock for tests.
func NewServiceWithClock(db storage.Provider, nowFn func() time.Time) *Service {
	return &Service{db: db, nowFn: nowFn}
}

// RecordCompletion credits one completion event. noActiveLeft is computed by
// the caller after the task mutation lands (complete-then-reward ordering).
func (s *Service) RecordCompletion(task models.Task, noActiveLeft bool) (models.Ledger, Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.db.GetLedger()
	if err != nil {
		return models.Ledger{}, Breakdown{}, err
	}

	now := s.nowFn()
	updated, breakdown := ApplyCompletion(ledger, task, now, noActiveLeft)
	s.touch(&updated, now)

	if err := s.db.SaveLedger(updated); err != nil {
		return models.Ledger{}, Breakdown{}, err
	}

	logger.Debug("Recorded completion",
		"task", task.ID, "earned", breakdown.Total,
		"streak", updated.CurrentStreak, "balance", updated.Balance)
	return updated, breakdown, nil
}

// Snapshot returns the current ledger state, applying (and persisting) the
// lazy daily reset when the day has rolled over since the last access.
func (s *Service) Snapshot() (models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.db.GetLedger()
	if err != nil {
		return models.Ledger{}, err
	}

	now := s.nowFn()
	reset, changed := EnsureDailyReset(ledger, now)
	if changed {
		s.touch(&reset, now)
		if err := s.db.SaveLedger(reset); err != nil {
			return models.Ledger{}, err
		}
	}
	return reset, nil
}

// SpendBalance deducts from the spendable balance (lifetime earnings are
// untouched; they are monotone and drive the level).
func (s *Service) SpendBalance(amount int) (models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.db.GetLedger()
	if err != nil {
		return models.Ledger{}, err
	}
	if amount < 0 || amount > ledger.Balance {
		return ledger, nil
	}

	ledger.Balance -= amount
	s.touch(&ledger, s.nowFn())
	if err := s.db.SaveLedger(ledger); err != nil {
		return models.Ledger{}, err
	}
	return ledger, nil
}

// UpdatedSince reports whether the ledger changed after the given time; the
// sync reconciler uses it for the push side.
func (s *Service) UpdatedSince(since time.Time) (models.Ledger, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.db.GetLedger()
	if err != nil {
		return models.Ledger{}, false, err
	}
	return ledger, ledger.UpdatedAt.After(since), nil
}

// ApplyRemote overwrites the ledger with a strictly newer remote version,
// keeping the remote timestamp. It reports whether the remote version was
// written; an older or equal version is a no-op.
func (s *Service) ApplyRemote(remote models.Ledger) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local, err := s.db.GetLedger()
	if err != nil {
		return false, err
	}
	if !remote.UpdatedAt.After(local.UpdatedAt) {
		return false, nil
	}
	if err := s.db.SaveLedger(remote); err != nil {
		return false, err
	}
	return true, nil
}

// Current returns the raw ledger without side effects (no lazy reset).
func (s *Service) Current() (models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.GetLedger()
}

func (s *Service) touch(l *models.Ledger, now time.Time) {
	if !now.After(l.UpdatedAt) {
		now = l.UpdatedAt.Add(time.Microsecond)
	}
	l.UpdatedAt = now
}
