package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

func TestCachedAlert_RoundTripKeepsKey(t *testing.T) {
	days := 2
	tests := []models.Alert{
		{Type: models.AlertStock, ItemID: uuid.New(), ItemName: "Milk", Severity: models.SeverityLow, Message: "low"},
		{Type: models.AlertExpiration, ItemID: uuid.New(), BatchID: uuid.New(), Severity: models.SeverityExpiringSoon, DaysLeft: &days},
	}
	for _, a := range tests {
		t.Run(a.Key(), func(t *testing.T) {
			got := FromCached(ToCached(a))
			if got.Key() != a.Key() {
				t.Fatalf("key = %q, want %q", got.Key(), a.Key())
			}
			if (got.DaysLeft == nil) != (a.DaysLeft == nil) {
				t.Fatalf("DaysLeft = %v, want %v", got.DaysLeft, a.DaysLeft)
			}
		})
	}
}

func TestFromEvent(t *testing.T) {
	at := time.Date(2025, 1, 5, 4, 0, 0, 0, time.UTC)
	e := &events.StockAlertRaised{
		Envelope:  events.NewEnvelope(at),
		AlertType: string(models.AlertStock),
		ItemID:    uuid.New(),
		Severity:  string(models.SeverityOut),
	}
	c := FromEvent(e)
	if c.ItemID != e.ItemID || c.Severity != "out" || !c.ObservedAt.Equal(at) {
		t.Fatalf("FromEvent = %+v", c)
	}
}
