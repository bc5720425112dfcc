// Package memstore is an in-memory implementation of store.Store, the same
// role internal/storage/memory plays for the teacher: it backs unit tests of
// the candidate resolver, merge executor, enum replacement engine, object
// orchestrator and retrieval layer without a live database. Transactions are
// copy-on-write: BeginTx snapshots the committed state, all writes land in
// the snapshot, Commit swaps it in atomically, Rollback discards it.
package memstore

import (
	"sync"

	"github.com/ltzf/ltzfd/internal/store"
)

// Store is the in-memory backend.
type Store struct {
	mu    sync.Mutex
	state *state
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{state: newState()}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Close() error { return nil }
