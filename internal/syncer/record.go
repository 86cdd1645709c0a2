// Package syncer reconciles local state against a remote record store under
// a last-writer-wins policy.
package syncer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nudgelabs/nudge-core/internal/models"
)

// Record is the wire envelope for one synced document. Payload is the full
// JSON encoding of the domain record; merge is whole-record, not per-field.
type Record struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	Payload   []byte    `json:"payload"`
}

// RemoteStore is the abstract remote replica: keyed upserts plus
// "everything updated after T" queries, per collection.
type RemoteStore interface {
	ListSince(ctx context.Context, collection string, since time.Time) ([]Record, error)
	Upsert(ctx context.Context, collection string, records []Record) error
}

func encodeTask(t models.Task) (Record, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: t.ID, UpdatedAt: t.UpdatedAt, Payload: payload}, nil
}

func decodeTask(rec Record) (models.Task, error) {
	var t models.Task
	if err := json.Unmarshal(rec.Payload, &t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func encodeLedger(id string, l models.Ledger) (Record, error) {
	payload, err := json.Marshal(l)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, UpdatedAt: l.UpdatedAt, Payload: payload}, nil
}

func decodeLedger(rec Record) (models.Ledger, error) {
	var l models.Ledger
	if err := json.Unmarshal(rec.Payload, &l); err != nil {
		return models.Ledger{}, err
	}
	return l, nil
}
