package persist

import (
	"context"
	"sync"

	"github.com/fardannozami/dailyreport/internal/domain"
)

// MemoryRepository keeps snapshots in process memory. Tests use it in place of sqlite.
type MemoryRepository struct {
	mu        sync.Mutex
	snapshots map[string]domain.Snapshot
	// Err, when set, is returned by PutSnapshot.
	Err error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snapshots: make(map[string]domain.Snapshot)}
}

func (m *MemoryRepository) GetSnapshot(ctx context.Context, key string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.snapshots[key]
	if !ok {
		return nil, nil
	}
	s.Data = append([]byte(nil), s.Data...)
	return &s, nil
}

func (m *MemoryRepository) PutSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	s := *snapshot
	s.Data = append([]byte(nil), snapshot.Data...)
	m.snapshots[s.Key] = s
	return nil
}
