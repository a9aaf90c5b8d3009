// Package messaging moves inventory domain events onto the watermill bus.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	pkgevents "github.com/ghuser/cafestock/pkg/events"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
)

const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
	MetadataTopic        = "topic"
)

// NewMessage encodes evt as a JSON watermill message carrying its id, schema
// version and topic in metadata.
func NewMessage(evt events.DomainEvent) (*message.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", evt.Topic(), err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventID, evt.ID().String())
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(evt.SchemaVersion()))
	msg.Metadata.Set(MetadataTopic, evt.Topic())
	return msg, nil
}

// Decode turns a message received on topic back into its event.
func Decode(topic string, msg *message.Message) (events.DomainEvent, error) {
	var evt events.DomainEvent
	switch topic {
	case events.TopicReservationCreated:
		evt = &events.ReservationCreated{}
	case events.TopicReservationCompleted:
		evt = &events.ReservationCompleted{}
	case events.TopicReservationReleased:
		evt = &events.ReservationReleased{}
	case events.TopicReservationExpired:
		evt = &events.ReservationExpired{}
	case events.TopicBatchDisposed:
		evt = &events.BatchDisposed{}
	case events.TopicStockAlertRaised:
		evt = &events.StockAlertRaised{}
	case events.TopicStockRestocked:
		evt = &events.StockRestocked{}
	case events.TopicStockConsumed:
		evt = &events.StockConsumed{}
	case events.TopicDayClosed:
		evt = &events.DayClosed{}
	default:
		return nil, fmt.Errorf("unknown topic %q", topic)
	}
	if err := json.Unmarshal(msg.Payload, evt); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", topic, err)
	}
	return evt, nil
}

// Publisher implements repositories.EventPublisher on an EventBus.
type Publisher struct {
	bus *pkgevents.EventBus
}

func NewPublisher(bus *pkgevents.EventBus) *Publisher {
	return &Publisher{bus: bus}
}

// Publish sends each event to its own topic, stopping at the first failure.
func (p *Publisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		msg, err := NewMessage(evt)
		if err != nil {
			return err
		}
		if err := p.bus.Publish(ctx, evt.Topic(), msg); err != nil {
			return err
		}
	}
	return nil
}

// PublishTo encodes evts and publishes them on pub, typically a publisher
// bound to a database transaction.
func PublishTo(pub message.Publisher, evts []events.DomainEvent) error {
	for _, evt := range evts {
		msg, err := NewMessage(evt)
		if err != nil {
			return err
		}
		if err := pub.Publish(evt.Topic(), msg); err != nil {
			return fmt.Errorf("publish %s: %w", evt.Topic(), err)
		}
	}
	return nil
}
