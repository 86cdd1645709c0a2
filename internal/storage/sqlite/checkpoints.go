package sqlite

import (
	"database/sql"

	errs "github.com/nudgelabs/nudge-core/internal/errors"
	"github.com/nudgelabs/nudge-core/internal/models"
)

// GetCheckpoint returns the zero checkpoint when no sync has completed yet,
// which makes the first sync a full-window pull.
func (s *Store) GetCheckpoint(collection string) (models.SyncCheckpoint, error) {
	row := s.db.QueryRow(`SELECT last_synced_at FROM sync_checkpoints WHERE collection = ?`, collection)

	var lastSyncedAt string
	err := row.Scan(&lastSyncedAt)
	if err == sql.ErrNoRows {
		return models.SyncCheckpoint{Collection: collection}, nil
	}
	if err != nil {
		return models.SyncCheckpoint{}, errs.Storage("get checkpoint", err)
	}

	cp := models.SyncCheckpoint{Collection: collection}
	if cp.LastSyncedAt, err = parseTime(lastSyncedAt); err != nil {
		return models.SyncCheckpoint{}, errs.Storage("parse checkpoint timestamp", err)
	}
	return cp, nil
}

func (s *Store) SaveCheckpoint(cp models.SyncCheckpoint) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO sync_checkpoints (collection, last_synced_at)
		VALUES (?, ?)`,
		cp.Collection, formatTime(cp.LastSyncedAt),
	)
	if err != nil {
		return errs.Storage("save checkpoint", err)
	}
	return nil
}
