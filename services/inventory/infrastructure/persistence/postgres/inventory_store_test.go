package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/database"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/pkg/migrator"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/domain/repositories"
)

func TestNullUUID(t *testing.T) {
	if nullUUID(uuid.Nil).Valid {
		t.Error("nil uuid should map to NULL")
	}
	id := uuid.New()
	if n := nullUUID(id); !n.Valid || n.UUID != id {
		t.Errorf("nullUUID(%s) = %+v", id, n)
	}
}

// Integration tests: skipped unless DATABASE_URL is set.
func TestInventoryStoreIntegration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}
	ctx := context.Background()
	log := logger.NewNop()
	if err := migrator.RunMigrations(ctx, url, os.DirFS("../../../../../migrations/inventory"), log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := database.NewPool(ctx, url, log)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer db.Close()

	store := NewInventoryStore(db, nil, log)
	now := time.Now().UTC().Truncate(time.Microsecond)
	threshold := decimal.RequireFromString("0.5")
	item, err := models.NewItem(models.NewItemParams{
		Name:             "Oat milk " + uuid.NewString()[:8],
		Unit:             models.UnitLiters,
		MinimumThreshold: &threshold,
		InitialBatches: []models.NewBatchParams{
			{Quantity: decimal.RequireFromString("1.25"), ExpirationDate: now.AddDate(0, 0, 2)},
			{Quantity: decimal.NewFromInt(3), ExpirationDate: now.AddDate(0, 0, 5)},
		},
	}, now)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	res, err := models.NewReservation("order-"+uuid.NewString()[:8], []models.ReservationLine{
		{ItemID: item.ID, Quantity: decimal.NewFromInt(1)},
	}, 15*time.Minute, false, "", now)
	if err != nil {
		t.Fatalf("NewReservation: %v", err)
	}

	t.Run("Commit_Load_RoundTrip", func(t *testing.T) {
		if err := store.Commit(ctx, repositories.Changeset{
			Items:        []*models.Item{item},
			Reservations: []*models.Reservation{res},
		}); err != nil {
			t.Fatalf("Commit: %v", err)
		}

		items, err := store.LoadItems(ctx)
		if err != nil {
			t.Fatalf("LoadItems: %v", err)
		}
		var got *models.Item
		for _, it := range items {
			if it.ID == item.ID {
				got = it
			}
		}
		if got == nil {
			t.Fatal("committed item not loaded")
		}
		if len(got.Batches) != 2 || !got.TotalQuantity().Equal(decimal.RequireFromString("4.25")) {
			t.Fatalf("loaded batches = %+v", got.Batches)
		}
		if got.MinimumThreshold == nil || !got.MinimumThreshold.Equal(threshold) {
			t.Fatalf("threshold = %v, want 0.5", got.MinimumThreshold)
		}

		reservations, err := store.LoadReservations(ctx)
		if err != nil {
			t.Fatalf("LoadReservations: %v", err)
		}
		found := false
		for _, r := range reservations {
			if r.ID == res.ID {
				found = true
				if len(r.Lines) != 1 || r.Status != models.ReservationActive {
					t.Fatalf("loaded reservation = %+v", r)
				}
			}
		}
		if !found {
			t.Fatal("committed reservation not loaded")
		}
	})

	t.Run("Snapshot_RoundTrip", func(t *testing.T) {
		snaps := NewSnapshotStore(db)
		snap := &models.DaySnapshot{
			ItemID:  item.ID,
			TakenAt: now,
			TakenBy: "amy",
			Batches: map[uuid.UUID]decimal.Decimal{item.Batches[0].ID: decimal.RequireFromString("1.25")},
		}
		if err := snaps.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		got, err := snaps.GetSnapshot(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetSnapshot: %v", err)
		}
		if !got.Batches[item.Batches[0].ID].Equal(decimal.RequireFromString("1.25")) {
			t.Fatalf("baseline = %v", got.Batches)
		}
		if err := snaps.DeleteSnapshot(ctx, item.ID); err != nil {
			t.Fatalf("DeleteSnapshot: %v", err)
		}
		if _, err := snaps.GetSnapshot(ctx, item.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("Audit_Record", func(t *testing.T) {
		if err := NewAuditLog(db).Record(ctx, models.AuditEntry{
			Action:    models.AuditStockRestocked,
			ItemID:    item.ID,
			Actor:     "amy",
			Timestamp: now,
			Detail:    map[string]string{"quantity": "2"},
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	})

	t.Run("Delete_Item", func(t *testing.T) {
		if err := store.Commit(ctx, repositories.Changeset{DeletedItemIDs: []uuid.UUID{item.ID}}); err != nil {
			t.Fatalf("Commit delete: %v", err)
		}
	})
}
