package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/pkg/auth"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

func TestBatchLedger_CreateItem_NormalizesExpiration(t *testing.T) {
	f := newFixture(t)
	// 23:30 on Jan 10 in UTC+8.
	exp := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	it, err := f.svcs.Ledger.CreateItem(context.Background(), models.NewItemParams{
		Name:           "Croissant",
		Unit:           models.UnitPieces,
		InitialBatches: []models.NewBatchParams{{Quantity: dec("12"), ExpirationDate: exp}},
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	want := time.Date(2025, 1, 9, 16, 0, 0, 0, time.UTC)
	if got := it.Batches[0].ExpirationDate; !got.Equal(want) {
		t.Fatalf("expiration = %s, want %s", got.UTC(), want)
	}
	if _, ok := f.store.Item(it.ID); !ok {
		t.Fatal("item not committed to the store")
	}
	if got := f.audit.Actions(); len(got) != 1 || got[0] != models.AuditItemCreated {
		t.Fatalf("audit actions = %v", got)
	}
}

func TestBatchLedger_CreateItem_Invalid(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		p    models.NewItemParams
	}{
		{"no batches", models.NewItemParams{Name: "Milk", Unit: models.UnitLiters}},
		{"fractional pieces", models.NewItemParams{Name: "Bagel", Unit: models.UnitPieces, InitialBatches: []models.NewBatchParams{
			{Quantity: dec("1.5"), ExpirationDate: testNow},
		}}},
		{"unknown unit", models.NewItemParams{Name: "Tea", Unit: "cups", InitialBatches: []models.NewBatchParams{
			{Quantity: dec("1"), ExpirationDate: testNow},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svcs.Ledger.CreateItem(context.Background(), tt.p); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
	if n := f.store.Commits(); n != 0 {
		t.Fatalf("store commits = %d, want 0", n)
	}
}

func TestBatchLedger_RestockThenThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	milk := f.createItem(t, "Milk", models.UnitLiters, "0.3")

	cur, _ := f.svcs.Ledger.GetItem(milk.ID)
	if got := f.svcs.Ledger.StatusOf(cur); got != models.StatusLowStock {
		t.Fatalf("status = %s, want LowStock", got)
	}

	b, err := f.svcs.Ledger.Restock(ctx, milk.ID, dec("1"), testNow.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("Restock: %v", err)
	}
	if !b.Quantity.Equal(dec("1")) {
		t.Fatalf("batch quantity = %s", b.Quantity)
	}
	cur, _ = f.svcs.Ledger.GetItem(milk.ID)
	if got := f.svcs.Ledger.StatusOf(cur); got != models.StatusInStock {
		t.Fatalf("status after restock = %s, want InStock", got)
	}

	if _, err := f.svcs.Ledger.UpdateThreshold(ctx, milk.ID, dptr("2")); err != nil {
		t.Fatalf("UpdateThreshold: %v", err)
	}
	cur, _ = f.svcs.Ledger.GetItem(milk.ID)
	if got := f.svcs.Ledger.StatusOf(cur); got != models.StatusLowStock {
		t.Fatalf("status with threshold 2 = %s, want LowStock", got)
	}

	if _, err := f.svcs.Ledger.UpdateThreshold(ctx, milk.ID, nil); err != nil {
		t.Fatalf("UpdateThreshold(nil): %v", err)
	}
	cur, _ = f.svcs.Ledger.GetItem(milk.ID)
	if got := f.svcs.Ledger.Threshold(cur); !got.Equal(dec("0.5")) {
		t.Fatalf("threshold = %s, want unit default 0.5", got)
	}

	if n := countTopic(f.events.Topics(), events.TopicStockRestocked); n != 1 {
		t.Fatalf("stock_restocked events = %d, want 1", n)
	}
}

func TestBatchLedger_ConsumeFIFO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// Batches expire on consecutive days, so the first one goes first.
	beans := f.createItem(t, "Beans", models.UnitKilograms, "1", "2")

	it, err := f.svcs.Ledger.Consume(ctx, beans.ID, dec("1.5"))
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if !it.Batches[0].Quantity.IsZero() || !it.Batches[1].Quantity.Equal(dec("1.5")) {
		t.Fatalf("batches = %s, %s; want 0, 1.5", it.Batches[0].Quantity, it.Batches[1].Quantity)
	}

	evts := f.events.Events()
	consumed, ok := evts[len(evts)-1].(events.StockConsumed)
	if !ok {
		t.Fatalf("last event = %T, want StockConsumed", evts[len(evts)-1])
	}
	if len(consumed.Draws) != 2 || !consumed.Total.Equal(dec("1.5")) {
		t.Fatalf("consumed = %+v", consumed)
	}
}

func TestBatchLedger_ConsumeIsAtomic(t *testing.T) {
	f := newFixture(t)
	beans := f.createItem(t, "Beans", models.UnitKilograms, "1", "2")
	commits := f.store.Commits()

	if _, err := f.svcs.Ledger.Consume(context.Background(), beans.ID, dec("3.5")); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := f.total(t, beans); !got.Equal(dec("3")) {
		t.Fatalf("total = %s, want 3", got)
	}
	if f.store.Commits() != commits {
		t.Fatal("a failed consume reached the store")
	}
}

func TestBatchLedger_ConsumeConverted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := f.createItem(t, "Flour", models.UnitKilograms, "5")

	if _, err := f.svcs.Ledger.ConsumeConverted(ctx, flour.ID, dec("1500"), models.UnitGrams); err != nil {
		t.Fatalf("ConsumeConverted: %v", err)
	}
	if got := f.total(t, flour); !got.Equal(dec("3.5")) {
		t.Fatalf("total = %s, want 3.5", got)
	}
	if _, err := f.svcs.Ledger.ConsumeConverted(ctx, flour.ID, dec("2"), models.UnitPieces); !errors.Is(err, domain.ErrIncompatibleUnits) {
		t.Fatalf("err = %v, want ErrIncompatibleUnits", err)
	}

	cups := f.createItem(t, "Cups", models.UnitPieces, "10")
	if _, err := f.svcs.Ledger.ConsumeConverted(ctx, cups.ID, dec("4"), models.UnitPieces); err != nil {
		t.Fatalf("ConsumeConverted in native pieces: %v", err)
	}
	if got := f.total(t, cups); !got.Equal(dec("6")) {
		t.Fatalf("cups total = %s, want 6", got)
	}
}

func TestBatchLedger_DisposeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cream := f.createItem(t, "Cream", models.UnitMilliliters, "500", "250")
	target := cream.Batches[0].ID

	it, err := f.svcs.Ledger.Dispose(ctx, cream.ID, []uuid.UUID{target})
	if err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if !it.TotalQuantity().Equal(dec("250")) {
		t.Fatalf("total = %s, want 250", it.TotalQuantity())
	}
	if _, err := f.svcs.Ledger.Dispose(ctx, cream.ID, []uuid.UUID{target}); err != nil {
		t.Fatalf("second Dispose: %v", err)
	}
	if n := countTopic(f.events.Topics(), events.TopicBatchDisposed); n != 1 {
		t.Fatalf("batch_disposed events = %d, want 1", n)
	}
	if _, err := f.svcs.Ledger.Dispose(ctx, cream.ID, []uuid.UUID{uuid.New()}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown batch err = %v, want ErrNotFound", err)
	}
}

func TestBatchLedger_CommitFailureChangesNothing(t *testing.T) {
	f := newFixture(t)
	beans := f.createItem(t, "Beans", models.UnitKilograms, "2")
	boom := errors.New("disk full")
	f.store.FailNextCommit(boom)

	if _, err := f.svcs.Ledger.Consume(context.Background(), beans.ID, dec("1")); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if got := f.total(t, beans); !got.Equal(dec("2")) {
		t.Fatalf("total = %s, want 2", got)
	}
}

func TestBatchLedger_AuditFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	beans := f.createItem(t, "Beans", models.UnitKilograms, "2")
	f.audit.FailWith(errors.New("audit down"))

	if _, err := f.svcs.Ledger.Consume(context.Background(), beans.ID, dec("1")); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got := f.total(t, beans); !got.Equal(dec("1")) {
		t.Fatalf("total = %s, want 1", got)
	}
}

func TestBatchLedger_AuditActor(t *testing.T) {
	f := newFixture(t)
	beans := f.createItem(t, "Beans", models.UnitKilograms, "2")
	ctx := auth.WithActor(context.Background(), "amy")

	if _, err := f.svcs.Ledger.Consume(ctx, beans.ID, dec("1")); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	entries := f.audit.Entries()
	last := entries[len(entries)-1]
	if last.Action != models.AuditStockConsumed || last.Actor != "amy" || last.ItemID != beans.ID {
		t.Fatalf("last audit entry = %+v", last)
	}
	if first := entries[0]; first.Actor != auth.SystemActor {
		t.Fatalf("create entry actor = %q, want %q", first.Actor, auth.SystemActor)
	}
}

func TestBatchLedger_DeleteGuardedByActiveReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	beans := f.createItem(t, "Beans", models.UnitKilograms, "2")
	r := f.reserve(t, "order-1", line(beans, "1"))

	if err := f.svcs.Ledger.DeleteItem(ctx, beans.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if _, err := f.svcs.Reservations.Release(ctx, r.ID, "customer left"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := f.svcs.Ledger.DeleteItem(ctx, beans.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := f.svcs.Ledger.GetItem(beans.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetItem err = %v, want ErrNotFound", err)
	}
	if err := f.svcs.Ledger.DeleteItem(ctx, beans.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second DeleteItem err = %v, want ErrNotFound", err)
	}
}

func TestBatchLedger_ListItemsSortedByName(t *testing.T) {
	f := newFixture(t)
	f.createItem(t, "Sugar", models.UnitGrams, "1000")
	f.createItem(t, "Almond milk", models.UnitLiters, "2")
	f.createItem(t, "Matcha", models.UnitGrams, "200")

	items := f.svcs.Ledger.ListItems()
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	want := []string{"Almond milk", "Matcha", "Sugar"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestBatchLedger_LoadRestoresState(t *testing.T) {
	f := newFixture(t)
	beans := f.createItem(t, "Beans", models.UnitKilograms, "2")

	fresh := NewWithDeps(Deps{Store: f.store, Snapshots: f.snaps, Clock: f.svcs.Clock, Now: f.clock.Now}, time.Minute)
	if err := fresh.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := fresh.Ledger.GetItem(beans.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !got.TotalQuantity().Equal(dec("2")) {
		t.Fatalf("total = %s, want 2", got.TotalQuantity())
	}
}
