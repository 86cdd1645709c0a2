package models

import "time"

// SyncCheckpoint tracks, per record collection, the timestamp up to which a
// pull+push round-trip has fully succeeded. It only advances after both
// directions complete.
type SyncCheckpoint struct {
	Collection   string    `json:"collection"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}
