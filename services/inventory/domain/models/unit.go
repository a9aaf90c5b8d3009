package models

// Unit is the measurement unit an item is stocked in. Quantities on items,
// batches and reservation lines are always expressed in the item's Unit.
type Unit string

const (
	UnitPieces      Unit = "pieces"
	UnitGrams       Unit = "grams"
	UnitKilograms   Unit = "kilograms"
	UnitMilliliters Unit = "milliliters"
	UnitLiters      Unit = "liters"
)

// Units lists every supported unit in display order.
var Units = []Unit{UnitPieces, UnitGrams, UnitKilograms, UnitMilliliters, UnitLiters}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case UnitPieces, UnitGrams, UnitKilograms, UnitMilliliters, UnitLiters:
		return true
	}
	return false
}

// IsCountBased reports whether quantities in u are whole counts.
func (u Unit) IsCountBased() bool {
	return u == UnitPieces
}

func (u Unit) String() string {
	return string(u)
}
