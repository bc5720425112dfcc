package memstore

import (
	"context"
	"errors"
	"sync"

	"github.com/ltzf/ltzfd/internal/store"
)

var errTxDone = errors.New("memstore: transaction already committed or rolled back")

type tx struct {
	store   *Store
	working *state
	mu      sync.Mutex
	done    bool
}

func (s *Store) BeginTx(_ context.Context) (store.Tx, error) {
	s.mu.Lock()
	working := s.state.clone()
	s.mu.Unlock()
	return &tx{store: s, working: working}, nil
}

func (t *tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.mu.Lock()
	t.store.state = t.working
	t.store.mu.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	return nil
}
