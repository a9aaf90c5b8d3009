// Package memory keeps inventory state in process memory. It backs the
// memory storage driver and the application tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/domain/repositories"
)

// Store implements repositories.InventoryStore. Events in a changeset are
// handed to the publisher before the state is applied, so a failed publish
// leaves the store untouched.
type Store struct {
	mu           sync.Mutex
	items        map[uuid.UUID]*models.Item
	reservations map[uuid.UUID]*models.Reservation
	publisher    repositories.EventPublisher
	commits      int
	failNext     error
}

// NewStore returns an empty store. publisher may be nil.
func NewStore(publisher repositories.EventPublisher) *Store {
	return &Store{
		items:        make(map[uuid.UUID]*models.Item),
		reservations: make(map[uuid.UUID]*models.Reservation),
		publisher:    publisher,
	}
}

func (s *Store) LoadItems(_ context.Context) ([]*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Item, 0, len(s.items))
	for _, id := range models.SortedIDs(s.items) {
		out = append(out, s.items[id].Clone())
	}
	return out, nil
}

func (s *Store) LoadReservations(_ context.Context) ([]*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Reservation, 0, len(s.reservations))
	for _, id := range models.SortedIDs(s.reservations) {
		out = append(out, s.reservations[id].Clone())
	}
	return out, nil
}

func (s *Store) Commit(ctx context.Context, cs repositories.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failNext; err != nil {
		s.failNext = nil
		return err
	}
	if len(cs.Events) > 0 && s.publisher != nil {
		if err := s.publisher.Publish(ctx, cs.Events...); err != nil {
			return fmt.Errorf("memory: publish events: %w", err)
		}
	}

	for _, it := range cs.Items {
		s.items[it.ID] = it.Clone()
	}
	for _, id := range cs.DeletedItemIDs {
		delete(s.items, id)
	}
	for _, r := range cs.Reservations {
		s.reservations[r.ID] = r.Clone()
	}
	s.commits++
	return nil
}

// FailNextCommit makes the next Commit return err without applying anything.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Commits reports how many changesets were applied.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Item returns a copy of the stored item.
func (s *Store) Item(id uuid.UUID) (*models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return it.Clone(), true
}

// Reservation returns a copy of the stored reservation.
func (s *Store) Reservation(id uuid.UUID) (*models.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}
