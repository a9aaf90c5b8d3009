package memory

import (
	"context"
	"sync"

	"github.com/ghuser/cafestock/services/inventory/domain/events"
)

// Recorder implements repositories.EventPublisher by keeping every event.
type Recorder struct {
	mu     sync.Mutex
	events []events.DomainEvent
	err    error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, evts ...events.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, evts...)
	return nil
}

// FailWith makes every following Publish return err. Pass nil to recover.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Events returns the published events in order.
func (r *Recorder) Events() []events.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.DomainEvent(nil), r.events...)
}

// Topics returns the topic of every published event in order.
func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic()
	}
	return out
}
