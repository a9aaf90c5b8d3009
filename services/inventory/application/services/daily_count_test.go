package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/pkg/auth"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

func TestDailyCount_VarianceAgainstSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := auth.WithActor(context.Background(), "closing-shift")
	milk := f.createItem(t, "Milk", models.UnitLiters, "2", "3")
	b0, b1 := milk.Batches[0].ID, milk.Batches[1].ID

	snap, err := f.svcs.DailyCount.StartDay(ctx, milk.ID)
	if err != nil {
		t.Fatalf("StartDay: %v", err)
	}
	if snap.TakenBy != "closing-shift" || len(snap.Batches) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}

	// Sales during the day move the recorded quantity, not the baseline.
	if _, err := f.svcs.Ledger.Consume(ctx, milk.ID, dec("0.5")); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	res, err := f.svcs.DailyCount.EndDay(ctx, milk.ID, []BatchCount{
		{BatchID: b0, Quantity: dec("1.2")},
		{BatchID: b1, Quantity: dec("3")},
	})
	if err != nil {
		t.Fatalf("EndDay: %v", err)
	}
	if !res.FromSnapshot {
		t.Fatal("FromSnapshot = false")
	}
	v := res.Variances[0]
	if !v.Baseline.Equal(dec("2")) || !v.Recorded.Equal(dec("1.5")) || !v.Variance.Equal(dec("0.8")) {
		t.Fatalf("variance = %+v", v)
	}
	if !res.Variances[1].Variance.IsZero() {
		t.Fatalf("second variance = %s, want 0", res.Variances[1].Variance)
	}
	if !res.Item.TotalQuantity().Equal(dec("4.2")) {
		t.Fatalf("total = %s, want 4.2", res.Item.TotalQuantity())
	}

	if _, err := f.snaps.GetSnapshot(ctx, milk.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("snapshot after end of day: err = %v, want ErrNotFound", err)
	}
	evts := f.events.Events()
	closed, ok := evts[len(evts)-1].(events.DayClosed)
	if !ok || closed.Actor != "closing-shift" || len(closed.Variances) != 2 {
		t.Fatalf("last event = %#v", evts[len(evts)-1])
	}
}

func TestDailyCount_WithoutSnapshotUsesRecorded(t *testing.T) {
	f := newFixture(t)
	beans := f.createItem(t, "Beans", models.UnitKilograms, "5")

	res, err := f.svcs.DailyCount.EndDay(context.Background(), beans.ID, []BatchCount{
		{BatchID: beans.Batches[0].ID, Quantity: dec("4.5")},
	})
	if err != nil {
		t.Fatalf("EndDay: %v", err)
	}
	if res.FromSnapshot {
		t.Fatal("FromSnapshot = true")
	}
	if v := res.Variances[0]; !v.Baseline.Equal(dec("5")) || !v.Variance.Equal(dec("0.5")) {
		t.Fatalf("variance = %+v", v)
	}
}

func TestDailyCount_RejectsAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cups := f.createItem(t, "Cups", models.UnitPieces, "10", "20")
	b0, b1 := cups.Batches[0].ID, cups.Batches[1].ID

	tests := []struct {
		name    string
		itemID  uuid.UUID
		counts  []BatchCount
		wantErr error
	}{
		{"no counts", cups.ID, nil, domain.ErrValidation},
		{"negative", cups.ID, []BatchCount{{BatchID: b0, Quantity: dec("-1")}}, domain.ErrValidation},
		{"duplicate batch", cups.ID, []BatchCount{{BatchID: b0, Quantity: dec("1")}, {BatchID: b0, Quantity: dec("2")}}, domain.ErrValidation},
		{"fractional pieces", cups.ID, []BatchCount{{BatchID: b0, Quantity: dec("1.5")}}, domain.ErrValidation},
		{"unknown batch after a valid one", cups.ID, []BatchCount{{BatchID: b1, Quantity: dec("3")}, {BatchID: uuid.New(), Quantity: dec("1")}}, domain.ErrNotFound},
		{"unknown item", uuid.New(), []BatchCount{{BatchID: b0, Quantity: dec("1")}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svcs.DailyCount.EndDay(ctx, tt.itemID, tt.counts); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := f.total(t, cups); !got.Equal(dec("30")) {
				t.Fatalf("total = %s, want 30", got)
			}
		})
	}
}

func TestDailyCount_StartDayUnknownItem(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svcs.DailyCount.StartDay(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDailyCount_BulkEndDayPartialFailure(t *testing.T) {
	f := newFixture(t)
	beans := f.createItem(t, "Beans", models.UnitKilograms, "5")
	milk := f.createItem(t, "Milk", models.UnitLiters, "2")
	missing := uuid.New()

	res := f.svcs.DailyCount.BulkEndDay(context.Background(), []EndDayEntry{
		{ItemID: beans.ID, Counts: []BatchCount{{BatchID: beans.Batches[0].ID, Quantity: dec("4")}}},
		{ItemID: missing, Counts: []BatchCount{{BatchID: uuid.New(), Quantity: dec("1")}}},
		{ItemID: milk.ID, Counts: []BatchCount{{BatchID: milk.Batches[0].ID, Quantity: dec("1.9")}}},
	})

	if len(res.Updated) != 2 || len(res.Failed) != 1 {
		t.Fatalf("updated = %d, failed = %d; want 2 and 1", len(res.Updated), len(res.Failed))
	}
	if res.Failed[0].ItemID != missing || !errors.Is(res.Failed[0].Err, domain.ErrNotFound) {
		t.Fatalf("failure = %+v", res.Failed[0])
	}
	if got := f.total(t, milk); !got.Equal(dec("1.9")) {
		t.Fatalf("milk total = %s, want 1.9", got)
	}
}
