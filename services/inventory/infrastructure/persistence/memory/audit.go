package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// AuditLog implements repositories.AuditSink by appending to a slice.
type AuditLog struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	err     error
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Record(_ context.Context, e models.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	e.Detail = maps.Clone(e.Detail)
	l.entries = append(l.entries, e)
	return nil
}

// FailWith makes every following Record return err. Pass nil to recover.
func (l *AuditLog) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

// Entries returns a copy of the recorded entries in order.
func (l *AuditLog) Entries() []models.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.AuditEntry(nil), l.entries...)
}

// Actions returns the recorded actions in order.
func (l *AuditLog) Actions() []models.AuditAction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.AuditAction, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Action
	}
	return out
}
