package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/domain/repositories"
)

var now = time.Date(2025, 1, 5, 4, 0, 0, 0, time.UTC)

func newItem(t *testing.T) *models.Item {
	t.Helper()
	it, err := models.NewItem(models.NewItemParams{
		Name: "Milk",
		Unit: models.UnitLiters,
		InitialBatches: []models.NewBatchParams{
			{Quantity: decimal.NewFromInt(4), ExpirationDate: now.AddDate(0, 0, 3)},
		},
	}, now)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	return it
}

func TestStore_CommitAndLoad(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	s := NewStore(rec)
	it := newItem(t)

	evt := events.BatchDisposed{Envelope: events.NewEnvelope(now), ItemID: it.ID}
	if err := s.Commit(ctx, repositories.Changeset{Items: []*models.Item{it}, Events: []events.DomainEvent{evt}}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	it.Batches[0].Quantity = decimal.Zero

	items, err := s.LoadItems(ctx)
	if err != nil {
		t.Fatalf("LoadItems: %v", err)
	}
	if len(items) != 1 || !items[0].TotalQuantity().Equal(decimal.NewFromInt(4)) {
		t.Fatalf("loaded items = %+v, want one item with 4", items)
	}
	if got := rec.Topics(); len(got) != 1 || got[0] != events.TopicBatchDisposed {
		t.Fatalf("topics = %v", got)
	}

	if err := s.Commit(ctx, repositories.Changeset{DeletedItemIDs: []uuid.UUID{it.ID}}); err != nil {
		t.Fatalf("Commit delete: %v", err)
	}
	if _, ok := s.Item(it.ID); ok {
		t.Fatal("item still present after delete")
	}
	if s.Commits() != 2 {
		t.Fatalf("Commits() = %d, want 2", s.Commits())
	}
}

func TestStore_PublishFailureAppliesNothing(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	rec.FailWith(errors.New("bus down"))
	s := NewStore(rec)
	it := newItem(t)

	evt := events.BatchDisposed{Envelope: events.NewEnvelope(now), ItemID: it.ID}
	if err := s.Commit(ctx, repositories.Changeset{Items: []*models.Item{it}, Events: []events.DomainEvent{evt}}); err == nil {
		t.Fatal("expected publish error")
	}
	if _, ok := s.Item(it.ID); ok {
		t.Fatal("item stored despite failed publish")
	}
}

func TestStore_FailNextCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	boom := errors.New("disk full")
	s.FailNextCommit(boom)

	if err := s.Commit(ctx, repositories.Changeset{Items: []*models.Item{newItem(t)}}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if err := s.Commit(ctx, repositories.Changeset{Items: []*models.Item{newItem(t)}}); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshotStore()
	itemID, batchID := uuid.New(), uuid.New()

	if _, err := s.GetSnapshot(ctx, itemID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetSnapshot err = %v, want ErrNotFound", err)
	}

	snap := &models.DaySnapshot{ItemID: itemID, TakenAt: now, Batches: map[uuid.UUID]decimal.Decimal{batchID: decimal.NewFromInt(2)}}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	snap.Batches[batchID] = decimal.Zero

	got, err := s.GetSnapshot(ctx, itemID)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if !got.Batches[batchID].Equal(decimal.NewFromInt(2)) {
		t.Fatalf("baseline = %s, want 2", got.Batches[batchID])
	}

	if err := s.DeleteSnapshot(ctx, itemID); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if _, err := s.GetSnapshot(ctx, itemID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("after delete err = %v, want ErrNotFound", err)
	}
}
