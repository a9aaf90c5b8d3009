package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// itemLocks serializes read-then-write operations per item. Operations on
// several items take every lock in ascending id order so two of them can
// never wait on each other.
type itemLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newItemLocks() *itemLocks {
	return &itemLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *itemLocks) get(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// lock acquires the locks of ids, ignoring duplicates, and returns the
// function that releases them.
func (l *itemLocks) lock(ids ...uuid.UUID) (unlock func()) {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	ordered := models.SortedIDs(set)

	held := make([]*sync.Mutex, 0, len(ordered))
	for _, id := range ordered {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
