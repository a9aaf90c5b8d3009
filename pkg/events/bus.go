// Package events is the inventory engine's pub/sub bus, built on Watermill.
// Two transports are supported: PostgreSQL (watermill-sql, optionally behind
// the forwarder outbox) and an in-process gochannel for single-node runs.
//
// On the SQL transport all instances with the same service name share a
// consumer group, so each message is handled by one instance. On gochannel
// every subscriber sees every message.
//
// Handlers must be idempotent. A failing handler is retried with exponential
// backoff (see RetryPolicy) and Nacked once the attempts are used up.
// Trace context travels in message metadata.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/ghuser/cafestock/pkg/config"
	"github.com/ghuser/cafestock/pkg/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	errBuffer       = 100
)

// ErrNoTransactions is returned by NewTxPublisher and StartForwarder on an
// in-memory bus.
var ErrNoTransactions = errors.New("events: in-memory bus has no transactional publisher")

type HandlerFunc func(ctx context.Context, msg *message.Message) error

type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	db         *sql.DB // nil for gochannel
	group      string
	log        logger.Logger
	retry      RetryPolicy

	fwd          *forwarder.Forwarder
	useForwarder bool

	wg sync.WaitGroup
}

// NewInMemoryEventBus returns a gochannel bus. Messages published before
// anyone subscribes are dropped.
func NewInMemoryEventBus(log logger.Logger) *EventBus {
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, newWatermillLogger(log))
	return &EventBus{
		publisher:  ch,
		subscriber: ch,
		log:        log,
		retry:      DefaultRetryPolicy,
	}
}

// NewEventBus opens cfg.DatabaseURL and publishes straight to the SQL topic
// tables. Tables are created on first use.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newSQLEventBus(cfg, log, false)
}

// NewEventBusWithForwarder is NewEventBus with publishes routed through the
// forwarder queue. Call StartForwarder to relay them to their topics.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newSQLEventBus(cfg, log, true)
}

// WithRetryPolicy replaces the handler retry policy. Call before Subscribe.
func (b *EventBus) WithRetryPolicy(p RetryPolicy) *EventBus {
	b.retry = p
	return b
}

// Transactional reports whether NewTxPublisher is available.
func (b *EventBus) Transactional() bool {
	return b.db != nil
}

// DB returns the bus connection, or nil for gochannel.
func (b *EventBus) DB() *sql.DB {
	return b.db
}

// Publish sends msgs to topic with the trace context of ctx attached.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic in the background until ctx is done or the bus
// is closed. Each message is handled with the publisher's trace restored.
// A nil return Acks; an error is retried per the bus RetryPolicy, then the
// message is Nacked and the error sent on the returned channel.
//
// Callers must drain the channel:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.ErrorContext(ctx, "subscriber error", "error", err) } }()
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler HandlerFunc) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBuffer)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			err := b.retry.run(msgCtx, b.log, func() error { return handler(msgCtx, msg) })
			if err == nil {
				msg.Ack()
				continue
			}
			msg.Nack()
			select {
			case errCh <- fmt.Errorf("%s: message %s: %w", topic, msg.UUID, err):
			default:
				b.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
					"error", err, "topic", topic)
			}
		}
	}()

	return errCh, nil
}

// Ping checks the bus database. gochannel is always healthy.
func (b *EventBus) Ping(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and the forwarder, waits up to 30s for
// in-flight handlers, then closes the publisher and the database.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error("events: timed out waiting for in-flight handlers")
	}

	if b.db == nil {
		// gochannel: publisher and subscriber are the same value.
		return nil
	}
	return errors.Join(b.publisher.Close(), b.db.Close())
}
