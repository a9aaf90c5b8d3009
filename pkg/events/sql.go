package events

import (
	"context"
	"database/sql"
	"fmt"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/cafestock/pkg/config"
	"github.com/ghuser/cafestock/pkg/logger"
)

// forwarderTopic is the outbox table the forwarder drains.
const forwarderTopic = "_forwarder_queue"

func newSQLEventBus(cfg *config.Config, log logger.Logger, useForwarder bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	b := &EventBus{
		db:           db,
		group:        cfg.ServiceName + "-consumer",
		log:          log,
		retry:        DefaultRetryPolicy,
		useForwarder: useForwarder,
	}

	pub, err := watermillsql.NewPublisher(db, publisherConfig(true), newWatermillLogger(log))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	b.publisher = b.wrap(pub)

	sub, err := b.newSubscriber(b.group)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}
	b.subscriber = sub
	return b, nil
}

func publisherConfig(autoInit bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}
}

func (b *EventBus) newSubscriber(group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, newWatermillLogger(b.log))
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %s: %w", group, err)
	}
	return sub, nil
}

// wrap routes pub through the forwarder queue in forwarder mode.
func (b *EventBus) wrap(pub message.Publisher) message.Publisher {
	if !b.useForwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// NewTxPublisher returns a publisher that writes inside tx, so state and
// events commit together. Topic tables must already exist.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	if b.db == nil {
		return nil, ErrNoTransactions
	}
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), newWatermillLogger(b.log))
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return b.wrap(pub), nil
}

// StartForwarder relays messages from the outbox queue to their topics until
// ctx is done. It returns once the relay is running. Call it once, and only
// on a bus from NewEventBusWithForwarder.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	switch {
	case !b.useForwarder:
		return fmt.Errorf("events: StartForwarder called on non-forwarder EventBus")
	case b.fwd != nil:
		return fmt.Errorf("events: forwarder already started")
	case b.db == nil:
		return ErrNoTransactions
	}

	fwdSub, err := b.newSubscriber("forwarder-consumer")
	if err != nil {
		return err
	}
	target, err := watermillsql.NewPublisher(b.db, publisherConfig(true), newWatermillLogger(b.log))
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: new forwarder target publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(fwdSub, target, newWatermillLogger(b.log), forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = target.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}
}
