package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/cafestock/pkg/cache"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	invCache "github.com/ghuser/cafestock/services/inventory/infrastructure/cache"
	"github.com/ghuser/cafestock/services/inventory/infrastructure/messaging"
)

type alertFeed interface {
	PushFeed(ctx context.Context, a cache.CachedAlert) error
}

// notifier turns inventory events into log lines and feeds raised alerts
// into Redis for the dashboard.
type notifier struct {
	log  logger.Logger
	feed alertFeed // nil without Redis
}

func newNotifier(log logger.Logger) *notifier {
	return &notifier{log: log}
}

// handler returns the subscriber for topic.
// Handlers must be idempotent: EventBus retries up to 3× on failure.
// A malformed payload is logged and acked so it is not redelivered forever.
func (n *notifier) handler(topic string) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := messaging.Decode(topic, msg)
		if err != nil {
			n.log.ErrorContext(ctx, "dropping undecodable event",
				"topic", topic, "message_id", msg.UUID, "error", err)
			return nil
		}
		return n.handle(ctx, evt)
	}
}

func (n *notifier) handle(ctx context.Context, evt events.DomainEvent) error {
	switch e := evt.(type) {
	case *events.StockAlertRaised:
		n.log.WarnContext(ctx, "stock alert",
			"alert_type", e.AlertType,
			"severity", e.Severity,
			"item_id", e.ItemID,
			"item_name", e.ItemName,
			"message", e.Message,
		)
		if n.feed == nil {
			return nil
		}
		// A failed push is retried by the bus.
		return n.feed.PushFeed(ctx, invCache.FromEvent(e))
	case *events.ReservationCreated:
		n.log.InfoContext(ctx, "reservation created",
			"reservation_id", e.ReservationID,
			"order_id", e.OrderID,
			"lines", len(e.Lines),
			"manager_override", e.ManagerOverride,
			"expires_at", e.ExpiresAt,
		)
		if e.ManagerOverride {
			n.log.WarnContext(ctx, "reservation placed with manager override",
				"reservation_id", e.ReservationID,
				"actor", e.Actor,
				"reason", e.OverrideReason,
			)
		}
	case *events.ReservationCompleted:
		n.log.InfoContext(ctx, "reservation completed",
			"reservation_id", e.ReservationID, "order_id", e.OrderID, "actor", e.Actor)
	case *events.ReservationReleased:
		n.log.InfoContext(ctx, "reservation released",
			"reservation_id", e.ReservationID, "order_id", e.OrderID, "reason", e.Reason)
	case *events.ReservationExpired:
		n.log.InfoContext(ctx, "reservation expired",
			"reservation_id", e.ReservationID, "order_id", e.OrderID, "expires_at", e.ExpiresAt)
	case *events.BatchDisposed:
		n.log.InfoContext(ctx, "batches disposed",
			"item_id", e.ItemID, "batches", len(e.Batches), "actor", e.Actor)
	case *events.StockRestocked:
		n.log.InfoContext(ctx, "stock restocked",
			"item_id", e.ItemID, "batch_id", e.BatchID, "quantity", e.Quantity.String(), "total", e.Total.String())
	case *events.StockConsumed:
		n.log.DebugContext(ctx, "stock consumed",
			"item_id", e.ItemID, "draws", len(e.Draws), "total", e.Total.String())
	case *events.DayClosed:
		for _, v := range e.Variances {
			if v.Variance.IsZero() {
				continue
			}
			n.log.InfoContext(ctx, "count variance",
				"item_id", e.ItemID,
				"batch_id", v.BatchID,
				"baseline", v.Baseline.String(),
				"counted", v.Counted.String(),
				"variance", v.Variance.String(),
			)
		}
	default:
		n.log.WarnContext(ctx, "unhandled event", "topic", evt.Topic())
	}
	return nil
}
