// Package cache adapts the Redis alert cache to the inventory domain.
package cache

import (
	"context"

	pkgcache "github.com/ghuser/cafestock/pkg/cache"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// AlertStateStore implements repositories.AlertStateStore on Redis so the
// sweeper's previous alert set survives restarts and is shared by replicas.
type AlertStateStore struct {
	cache *pkgcache.AlertCache
}

func NewAlertStateStore(c *pkgcache.AlertCache) *AlertStateStore {
	return &AlertStateStore{cache: c}
}

func (s *AlertStateStore) LoadAlerts(ctx context.Context) ([]models.Alert, error) {
	cached, err := s.cache.GetState(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Alert, len(cached))
	for i, c := range cached {
		out[i] = FromCached(c)
	}
	return out, nil
}

func (s *AlertStateStore) SaveAlerts(ctx context.Context, alerts []models.Alert) error {
	cached := make([]pkgcache.CachedAlert, len(alerts))
	for i, a := range alerts {
		cached[i] = ToCached(a)
	}
	return s.cache.SetState(ctx, cached)
}

// ToCached maps a domain alert to its Redis form.
func ToCached(a models.Alert) pkgcache.CachedAlert {
	return pkgcache.CachedAlert{
		Type:       string(a.Type),
		ItemID:     a.ItemID,
		ItemName:   a.ItemName,
		BatchID:    a.BatchID,
		Severity:   string(a.Severity),
		Message:    a.Message,
		DaysLeft:   a.DaysLeft,
		ObservedAt: a.ObservedAt,
	}
}

// FromCached maps a Redis alert back to the domain.
func FromCached(c pkgcache.CachedAlert) models.Alert {
	return models.Alert{
		Type:       models.AlertType(c.Type),
		ItemID:     c.ItemID,
		ItemName:   c.ItemName,
		BatchID:    c.BatchID,
		Severity:   models.Severity(c.Severity),
		Message:    c.Message,
		DaysLeft:   c.DaysLeft,
		ObservedAt: c.ObservedAt,
	}
}

// FromEvent maps a StockAlertRaised event to its Redis form.
func FromEvent(e *events.StockAlertRaised) pkgcache.CachedAlert {
	return pkgcache.CachedAlert{
		Type:       e.AlertType,
		ItemID:     e.ItemID,
		ItemName:   e.ItemName,
		BatchID:    e.BatchID,
		Severity:   e.Severity,
		Message:    e.Message,
		DaysLeft:   e.DaysLeft,
		ObservedAt: e.OccurredAt,
	}
}
