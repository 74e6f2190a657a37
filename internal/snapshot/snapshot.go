// Package snapshot persists the ledger state as one opaque JSON document
// in a single storage slot. Every Save is a wholesale overwrite; there is
// no incremental or per-record write path.
package snapshot

import (
	"context"
	"errors"
	"sync"
)

// ErrEmpty reports that the slot holds no document yet. Callers treat it
// as "start from defaults", never as a failure.
var ErrEmpty = errors.New("snapshot: empty slot")

type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
	Close() error
}

// Memory keeps the document in process memory. It backs tests and acts
// as the fallback when no external slot is configured alongside a path.
type Memory struct {
	mu  sync.Mutex
	doc []byte

	// FailSaves makes every Save return an error, for exercising the
	// absorb-and-continue persistence contract.
	FailSaves bool
	Saves     int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, ErrEmpty
	}
	out := make([]byte, len(m.doc))
	copy(out, m.doc)
	return out, nil
}

func (m *Memory) Save(_ context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.FailSaves {
		return errors.New("snapshot: save disabled")
	}
	m.doc = make([]byte, len(doc))
	copy(m.doc, doc)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
