package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

func TestExpirySweeper_RaisesOnceAndClears(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	milk := f.createItem(t, "Milk", models.UnitLiters, "0.3")

	report, err := f.svcs.Sweeper.Sweep(ctx, f.clock.Now())
	if err != nil {
		t.Fatalf("first Sweep: %v", err)
	}
	if len(report.Raised) != 1 || report.Raised[0].Severity != models.SeverityLow {
		t.Fatalf("raised = %+v", report.Raised)
	}

	report, err = f.svcs.Sweeper.Sweep(ctx, f.clock.Now())
	if err != nil {
		t.Fatalf("second Sweep: %v", err)
	}
	if len(report.Raised) != 0 || report.Alerts != 1 {
		t.Fatalf("second sweep raised %d of %d alerts", len(report.Raised), report.Alerts)
	}

	if _, err := f.svcs.Ledger.Restock(ctx, milk.ID, dec("2"), testNow.AddDate(0, 0, 10)); err != nil {
		t.Fatalf("Restock: %v", err)
	}
	report, err = f.svcs.Sweeper.Sweep(ctx, f.clock.Now())
	if err != nil {
		t.Fatalf("third Sweep: %v", err)
	}
	if len(report.Cleared) != 1 || report.Alerts != 0 {
		t.Fatalf("cleared = %d, alerts = %d; want 1 and 0", len(report.Cleared), report.Alerts)
	}
	if n := countTopic(f.events.Topics(), events.TopicStockAlertRaised); n != 1 {
		t.Fatalf("stock_alert_raised events = %d, want 1", n)
	}
}

func TestExpirySweeper_ExpirationAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cream := f.createItem(t, "Cream", models.UnitMilliliters, "1000")
	if _, err := f.svcs.Ledger.Restock(ctx, cream.ID, dec("1000"), testNow.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("Restock: %v", err)
	}

	report, err := f.svcs.Sweeper.Sweep(ctx, f.clock.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(report.Raised) != 1 {
		t.Fatalf("raised = %+v, want one expiringSoon alert", report.Raised)
	}
	a := report.Raised[0]
	if a.Type != models.AlertExpiration || a.Severity != models.SeverityExpiringSoon || a.DaysLeft == nil {
		t.Fatalf("alert = %+v", a)
	}

	f.clock.Advance(4 * 24 * time.Hour)
	report, err = f.svcs.Sweeper.Sweep(ctx, f.clock.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(report.Raised) != 1 || report.Raised[0].Severity != models.SeverityExpired {
		t.Fatalf("raised = %+v, want one expired alert", report.Raised)
	}
}

func TestExpirySweeper_PublishFailureRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createItem(t, "Milk", models.UnitLiters, "0.3")

	f.events.FailWith(errors.New("broker down"))
	if _, err := f.svcs.Sweeper.Sweep(ctx, f.clock.Now()); err == nil {
		t.Fatal("Sweep succeeded with a failing publisher")
	}

	f.events.FailWith(nil)
	report, err := f.svcs.Sweeper.Sweep(ctx, f.clock.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(report.Raised) != 1 {
		t.Fatalf("raised = %d, want the alert raised again", len(report.Raised))
	}
}

func TestExpirySweeper_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	sweeper := NewExpirySweeper(f.svcs.Ledger, f.svcs.Reservations, 5*time.Millisecond, Deps{Store: f.store, Now: f.clock.Now})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestExpirySweeper_SweepAtLaterTimeExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	beans := f.createItem(t, "Beans", models.UnitKilograms, "5")

	r, err := f.svcs.Reservations.Reserve(ctx, ReserveInput{
		OrderID: "order-1",
		Lines:   []models.ReservationLine{line(beans, "1")},
		TTL:     time.Minute,
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	// The service clock stays put; only the sweep time moves.
	at := f.clock.Now().Add(2 * time.Minute)
	report, err := f.svcs.Sweeper.Sweep(ctx, at)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(report.Expired) != 1 || report.Expired[0] != r.ID {
		t.Fatalf("expired = %v, want [%s]", report.Expired, r.ID)
	}
	got, err := f.svcs.Reservations.Get(r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.ReservationExpired {
		t.Fatalf("status = %s, want expired", got.Status)
	}
	if sellable := f.sellable(t, beans); !sellable.Equal(dec("5")) {
		t.Fatalf("sellable = %s, want 5", sellable)
	}

	// Expire on the service clock still refuses a reservation that is not due.
	r2 := f.reserve(t, "order-2", line(beans, "1"))
	if _, err := f.svcs.Reservations.Expire(ctx, r2.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("Expire before due: err = %v, want ErrInvalidState", err)
	}
}
