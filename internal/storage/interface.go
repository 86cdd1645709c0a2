package storage

import (
	"time"

	"github.com/nudgelabs/nudge-core/internal/models"
)

// Provider is the durable persistence layer beneath the task store, reward
// service, and sync reconciler. Implementations return raw records; ordering,
// prioritization, and merge policy live in the callers.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Tasks
	PutTask(models.Task) error
	GetTask(id string) (models.Task, error)
	ListTasks() ([]models.Task, error)
	ListTasksUpdatedSince(since time.Time) ([]models.Task, error)
	RemoveTask(id string) error

	// Routines
	PutRoutine(models.Routine) error
	GetRoutine(id string) (models.Routine, error)
	ListRoutines() ([]models.Routine, error)
	RemoveRoutine(id string) error

	// Ledger (singleton; zero value returned for a fresh store)
	GetLedger() (models.Ledger, error)
	SaveLedger(models.Ledger) error

	// Sync checkpoints (zero value returned when none recorded yet)
	GetCheckpoint(collection string) (models.SyncCheckpoint, error)
	SaveCheckpoint(models.SyncCheckpoint) error

	// Utils
	GetConfigPath() string
}
