package core

import "sync"

// ScoreRecord is the best known result for one level.
type ScoreRecord struct {
	BestMoveCount      int
	BestElapsedSeconds int
	PlayerName         string
}

// ScoreStore persists the best record per level id. Many sessions may share
// one store, so the comparison against the stored record happens inside it.
type ScoreStore interface {
	// GetRecord returns the record for the level, and false when none exists.
	GetRecord(levelID int) (ScoreRecord, bool, error)
	// PutIfBetter stores rec when the level has no record or rec has strictly
	// fewer moves, and reports whether it did.
	PutIfBetter(levelID int, rec ScoreRecord) (bool, error)
}

// MemoryStore is an in-process ScoreStore, safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int]ScoreRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int]ScoreRecord)}
}

// GetRecord implements ScoreStore.
func (m *MemoryStore) GetRecord(levelID int) (ScoreRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[levelID]
	return rec, ok, nil
}

// PutIfBetter implements ScoreStore.
func (m *MemoryStore) PutIfBetter(levelID int, rec ScoreRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.records[levelID]; ok && rec.BestMoveCount >= old.BestMoveCount {
		return false, nil
	}
	m.records[levelID] = rec
	return true, nil
}

var _ ScoreStore = (*MemoryStore)(nil)
