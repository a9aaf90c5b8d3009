package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// ThresholdTable holds the per-unit minimum thresholds applied to items that
// do not set their own.
type ThresholdTable map[models.Unit]decimal.Decimal

// DefaultThresholds returns the business default threshold for every unit.
func DefaultThresholds() ThresholdTable {
	return ThresholdTable{
		models.UnitPieces:      decimal.NewFromInt(5),
		models.UnitGrams:       decimal.NewFromInt(500),
		models.UnitKilograms:   decimal.RequireFromString("0.5"),
		models.UnitMilliliters: decimal.NewFromInt(500),
		models.UnitLiters:      decimal.RequireFromString("0.5"),
	}
}

// ParseThresholds reads "unit=value" pairs separated by commas and overlays
// them on DefaultThresholds. An empty string yields the defaults.
func ParseThresholds(s string) (ThresholdTable, error) {
	table := DefaultThresholds()
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		unit, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: threshold %q is not unit=value", domain.ErrValidation, pair)
		}
		u := models.Unit(strings.TrimSpace(unit))
		if !u.Valid() {
			return nil, fmt.Errorf("%w: unknown unit %q in thresholds", domain.ErrValidation, u)
		}
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: threshold for %s: %v", domain.ErrValidation, u, err)
		}
		if v.IsNegative() {
			return nil, fmt.Errorf("%w: threshold for %s must not be negative", domain.ErrValidation, u)
		}
		table[u] = v
	}
	return table, nil
}

// For returns the effective threshold of item.
func (t ThresholdTable) For(item *models.Item) decimal.Decimal {
	if item.MinimumThreshold != nil {
		return *item.MinimumThreshold
	}
	return t[item.Unit]
}

// AlertEngine evaluates stock and expiration alerts from current item state.
// It keeps no state between calls.
type AlertEngine struct {
	thresholds ThresholdTable
	clock      BusinessClock
	// lookaheadDays limits expiringSoon alerts to batches with at most this
	// many days left. Zero reports every dated batch.
	lookaheadDays int
}

// NewAlertEngine builds an engine. A nil table uses DefaultThresholds.
func NewAlertEngine(thresholds ThresholdTable, clock BusinessClock, lookaheadDays int) *AlertEngine {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	return &AlertEngine{thresholds: thresholds, clock: clock, lookaheadDays: lookaheadDays}
}

// Thresholds returns the table the engine evaluates against.
func (e *AlertEngine) Thresholds() ThresholdTable {
	return e.thresholds
}

// Evaluate returns the full current alert set for items, most urgent first.
func (e *AlertEngine) Evaluate(items []*models.Item, now time.Time) []models.Alert {
	var alerts []models.Alert
	for _, item := range items {
		if a, ok := e.stockAlert(item, now); ok {
			alerts = append(alerts, a)
		}
		alerts = append(alerts, e.expirationAlerts(item, now)...)
	}
	SortAlerts(alerts)
	return alerts
}

func (e *AlertEngine) stockAlert(item *models.Item, now time.Time) (models.Alert, bool) {
	total := item.TotalQuantity()
	threshold := e.thresholds.For(item)
	if total.GreaterThan(threshold) {
		return models.Alert{}, false
	}

	a := models.Alert{
		Type:       models.AlertStock,
		ItemID:     item.ID,
		ItemName:   item.Name,
		ObservedAt: now,
	}
	if total.IsZero() {
		a.Severity = models.SeverityOut
		a.Message = fmt.Sprintf("%s is out of stock", item.Name)
	} else {
		a.Severity = models.SeverityLow
		a.Message = fmt.Sprintf("%s is low on stock: %s %s left, threshold %s",
			item.Name, total, item.Unit, threshold)
	}
	return a, true
}

func (e *AlertEngine) expirationAlerts(item *models.Item, now time.Time) []models.Alert {
	var out []models.Alert
	for _, b := range item.Batches {
		if !b.Consumable() {
			continue
		}
		left := e.clock.DaysLeft(b.ExpirationDate, now)
		if left >= 0 && e.lookaheadDays > 0 && left > e.lookaheadDays {
			continue
		}

		a := models.Alert{
			Type:       models.AlertExpiration,
			ItemID:     item.ID,
			ItemName:   item.Name,
			BatchID:    b.ID,
			ObservedAt: now,
			DaysLeft:   &left,
		}
		if left < 0 {
			a.Severity = models.SeverityExpired
			a.Message = fmt.Sprintf("%s batch of %s %s expired %d day(s) ago",
				item.Name, b.Quantity, item.Unit, -left)
		} else {
			a.Severity = models.SeverityExpiringSoon
			a.Message = fmt.Sprintf("%s batch of %s %s expires in %d day(s)",
				item.Name, b.Quantity, item.Unit, left)
		}
		out = append(out, a)
	}
	return out
}

// SortAlerts orders alerts by severity priority, then item id, then batch id.
func SortAlerts(alerts []models.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if pa, pb := a.Severity.Priority(), b.Severity.Priority(); pa != pb {
			return pa < pb
		}
		if c := compareIDs(a.ItemID, b.ItemID); c != 0 {
			return c < 0
		}
		return compareIDs(a.BatchID, b.BatchID) < 0
	})
}

// DiffAlerts compares two evaluations by Alert.Key. raised holds alerts in
// curr absent from prev; cleared holds alerts in prev absent from curr.
func DiffAlerts(prev, curr []models.Alert) (raised, cleared []models.Alert) {
	before := make(map[string]struct{}, len(prev))
	for _, a := range prev {
		before[a.Key()] = struct{}{}
	}
	after := make(map[string]struct{}, len(curr))
	for _, a := range curr {
		after[a.Key()] = struct{}{}
		if _, ok := before[a.Key()]; !ok {
			raised = append(raised, a)
		}
	}
	for _, a := range prev {
		if _, ok := after[a.Key()]; !ok {
			cleared = append(cleared, a)
		}
	}
	return raised, cleared
}

// Fingerprint is a content hash of the alert set, independent of order and
// observation time. Equal fingerprints mean nothing changed.
func Fingerprint(alerts []models.Alert) string {
	keys := make([]string, 0, len(alerts))
	for _, a := range alerts {
		keys = append(keys, a.Key())
	}
	sort.Strings(keys)
	sum := sha256.Sum256([]byte(strings.Join(keys, "\n")))
	return hex.EncodeToString(sum[:])
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
