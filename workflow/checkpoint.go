package workflow

import (
	"context"
	"sync"
)

// CheckpointStore persists the append-only lineage of state snapshots for
// each thread. Append must be atomic with respect to Latest and History:
// a reader never observes a partially written state.
type CheckpointStore interface {
	// Append adds a snapshot to the thread's lineage.
	Append(ctx context.Context, threadID string, s State) error
	// Latest returns the newest snapshot, or nil when the thread has none.
	Latest(ctx context.Context, threadID string) (*State, error)
	// History returns every snapshot for the thread, oldest first.
	History(ctx context.Context, threadID string) ([]State, error)
}

// MemoryStore is an in-process CheckpointStore keyed by thread identifier.
// Snapshots are deep-copied on both write and read so callers can never
// alias stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	lineages map[string][]State
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lineages: make(map[string][]State),
	}
}

// Append adds a snapshot to the thread's lineage.
func (m *MemoryStore) Append(_ context.Context, threadID string, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lineages[threadID] = append(m.lineages[threadID], s.Clone())
	return nil
}

// Latest returns the newest snapshot, or nil when the thread has none.
func (m *MemoryStore) Latest(_ context.Context, threadID string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lineage := m.lineages[threadID]
	if len(lineage) == 0 {
		return nil, nil
	}

	latest := lineage[len(lineage)-1].Clone()
	return &latest, nil
}

// History returns every snapshot for the thread, oldest first.
func (m *MemoryStore) History(_ context.Context, threadID string) ([]State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lineage := m.lineages[threadID]
	out := make([]State, len(lineage))
	for i, s := range lineage {
		out[i] = s.Clone()
	}
	return out, nil
}
