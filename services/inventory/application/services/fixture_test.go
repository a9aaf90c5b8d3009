package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainsvcs "github.com/ghuser/cafestock/services/inventory/domain/services"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/infrastructure/persistence/memory"
)

// testNow is noon on 2025-01-05 in the business zone.
var testNow = time.Date(2025, 1, 5, 4, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	svcs   *Services
	store  *memory.Store
	snaps  *memory.SnapshotStore
	audit  *memory.AuditLog
	events *memory.Recorder
	clock  *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := &fakeClock{t: testNow}
	rec := memory.NewRecorder()
	f := &fixture{
		store:  memory.NewStore(rec),
		snaps:  memory.NewSnapshotStore(),
		audit:  memory.NewAuditLog(),
		events: rec,
		clock:  clk,
	}
	clock := domainsvcs.NewBusinessClock(8)
	f.svcs = NewWithDeps(Deps{
		Store:      f.store,
		Snapshots:  f.snaps,
		Audit:      f.audit,
		AlertState: memory.NewAlertState(),
		// Expiration alerts only within three days keep stock alerts readable.
		Alerts: domainsvcs.NewAlertEngine(nil, clock, 3),
		Clock:  clock,
		Now:    clk.Now,
	}, time.Minute)
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// createItem adds an item with one batch per quantity, expiring 30, 31, ...
// days after testNow.
func (f *fixture) createItem(t *testing.T, name string, unit models.Unit, quantities ...string) *models.Item {
	t.Helper()
	p := models.NewItemParams{Name: name, Unit: unit}
	for i, q := range quantities {
		p.InitialBatches = append(p.InitialBatches, models.NewBatchParams{
			Quantity:       dec(q),
			ExpirationDate: testNow.AddDate(0, 0, 30+i),
		})
	}
	it, err := f.svcs.Ledger.CreateItem(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", name, err)
	}
	return it
}

func (f *fixture) reserve(t *testing.T, orderID string, lines ...models.ReservationLine) *models.Reservation {
	t.Helper()
	r, err := f.svcs.Reservations.Reserve(context.Background(), ReserveInput{OrderID: orderID, Lines: lines})
	if err != nil {
		t.Fatalf("Reserve(%s): %v", orderID, err)
	}
	return r
}

func (f *fixture) total(t *testing.T, it *models.Item) decimal.Decimal {
	t.Helper()
	q, err := f.svcs.Ledger.AvailableQuantity(it.ID)
	if err != nil {
		t.Fatalf("AvailableQuantity: %v", err)
	}
	return q
}

func (f *fixture) sellable(t *testing.T, it *models.Item) decimal.Decimal {
	t.Helper()
	q, err := f.svcs.Reservations.Sellable(it.ID)
	if err != nil {
		t.Fatalf("Sellable: %v", err)
	}
	return q
}

func line(it *models.Item, qty string) models.ReservationLine {
	return models.ReservationLine{ItemID: it.ID, Quantity: dec(qty)}
}

func countTopic(topics []string, topic string) int {
	n := 0
	for _, tp := range topics {
		if tp == topic {
			n++
		}
	}
	return n
}
