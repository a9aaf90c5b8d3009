package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// SnapshotStore implements repositories.SnapshotStore.
type SnapshotStore struct {
	mu    sync.Mutex
	snaps map[uuid.UUID]*models.DaySnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snaps: make(map[uuid.UUID]*models.DaySnapshot)}
}

func (s *SnapshotStore) SaveSnapshot(_ context.Context, snap *models.DaySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.ItemID] = copySnapshot(snap)
	return nil
}

func (s *SnapshotStore) GetSnapshot(_ context.Context, itemID uuid.UUID) (*models.DaySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: no day snapshot for item %s", domain.ErrNotFound, itemID)
	}
	return copySnapshot(snap), nil
}

func (s *SnapshotStore) DeleteSnapshot(_ context.Context, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, itemID)
	return nil
}

func copySnapshot(snap *models.DaySnapshot) *models.DaySnapshot {
	c := *snap
	c.Batches = maps.Clone(snap.Batches)
	return &c
}
