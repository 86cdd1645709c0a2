package syncer

import (
	"context"
	"sync"
	"time"
)

// MemoryRemote is an in-process RemoteStore. It backs tests and lets two
// reconcilers share one "remote" to exercise convergence.
type MemoryRemote struct {
	mu      sync.Mutex
	records map[string]map[string]Record // collection -> id -> record
}

func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{records: make(map[string]map[string]Record)}
}

func (m *MemoryRemote) ListSince(ctx context.Context, collection string, since time.Time) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Record
	for _, rec := range m.records[collection] {
		if rec.UpdatedAt.After(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MemoryRemote) Upsert(ctx context.Context, collection string, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.records[collection]
	if coll == nil {
		coll = make(map[string]Record)
		m.records[collection] = coll
	}
	for _, rec := range records {
		// Last writer wins on the remote side too.
		if existing, ok := coll[rec.ID]; ok && existing.UpdatedAt.After(rec.UpdatedAt) {
			continue
		}
		coll[rec.ID] = rec
	}
	return nil
}

// Get returns one record for test assertions.
func (m *MemoryRemote) Get(collection, id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[collection][id]
	return rec, ok
}
