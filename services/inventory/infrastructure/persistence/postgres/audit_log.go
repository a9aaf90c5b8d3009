package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/pkg/database"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// AuditLog implements repositories.AuditSink as an append-only table.
type AuditLog struct {
	db *database.Database
}

func NewAuditLog(db *database.Database) *AuditLog {
	return &AuditLog{db: db}
}

func (l *AuditLog) Record(ctx context.Context, e models.AuditEntry) error {
	detail := e.Detail
	if detail == nil {
		detail = map[string]string{}
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal audit detail: %w", err)
	}
	if _, err := l.db.DB().ExecContext(ctx, insertAudit,
		string(e.Action), nullUUID(e.ItemID), nullUUID(e.ReservationID), e.Actor, e.Timestamp, raw,
	); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
