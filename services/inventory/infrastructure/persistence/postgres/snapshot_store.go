package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/database"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// SnapshotStore implements repositories.SnapshotStore. Baselines are kept as
// a JSONB object of batch id to decimal string.
type SnapshotStore struct {
	db *database.Database
}

func NewSnapshotStore(db *database.Database) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap *models.DaySnapshot) error {
	batches, err := json.Marshal(snap.Batches)
	if err != nil {
		return fmt.Errorf("marshal snapshot batches: %w", err)
	}
	if _, err := s.db.DB().ExecContext(ctx, upsertSnapshot, snap.ItemID, snap.TakenAt, snap.TakenBy, batches); err != nil {
		if database.IsCode(err, database.CodeForeignKeyViolation) {
			return fmt.Errorf("%w: item %s", domain.ErrNotFound, snap.ItemID)
		}
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) GetSnapshot(ctx context.Context, itemID uuid.UUID) (*models.DaySnapshot, error) {
	snap := models.DaySnapshot{ItemID: itemID}
	var raw []byte
	err := s.db.DB().QueryRowContext(ctx, selectSnapshot, itemID).Scan(&snap.TakenAt, &snap.TakenBy, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no day snapshot for item %s", domain.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	snap.TakenAt = snap.TakenAt.UTC()
	snap.Batches = make(map[uuid.UUID]decimal.Decimal)
	if err := json.Unmarshal(raw, &snap.Batches); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot batches: %w", err)
	}
	return &snap, nil
}

func (s *SnapshotStore) DeleteSnapshot(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.db.DB().ExecContext(ctx, deleteSnapshot, itemID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
