// Package services contains stateless domain services for the inventory
// bounded context. They operate purely on domain types and never touch I/O.
package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

type unitGroup string

const (
	groupCount  unitGroup = "count"
	groupMass   unitGroup = "mass"
	groupVolume unitGroup = "volume"
)

// unitScale maps each unit to its group and its size in the group's base unit
// (grams for mass, milliliters for volume).
var unitScale = map[models.Unit]struct {
	group  unitGroup
	factor decimal.Decimal
}{
	models.UnitPieces:      {groupCount, decimal.NewFromInt(1)},
	models.UnitGrams:       {groupMass, decimal.NewFromInt(1)},
	models.UnitKilograms:   {groupMass, decimal.NewFromInt(1000)},
	models.UnitMilliliters: {groupVolume, decimal.NewFromInt(1)},
	models.UnitLiters:      {groupVolume, decimal.NewFromInt(1000)},
}

// Convert expresses value, measured in from, in the unit to.
//
// Pieces have no conversion partners, not even pieces. Mass and volume never
// convert into each other.
func Convert(value decimal.Decimal, from, to models.Unit) (decimal.Decimal, error) {
	src, ok := unitScale[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown unit %q", domain.ErrValidation, from)
	}
	dst, ok := unitScale[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown unit %q", domain.ErrValidation, to)
	}
	if src.group != dst.group || src.group == groupCount {
		return decimal.Zero, fmt.Errorf("%w: cannot convert %s to %s", domain.ErrIncompatibleUnits, from, to)
	}
	if from == to {
		return value, nil
	}
	return value.Mul(src.factor).Div(dst.factor), nil
}

// Compatible reports whether Convert(from, to) would succeed.
func Compatible(from, to models.Unit) bool {
	_, err := Convert(decimal.Zero, from, to)
	return err == nil
}
