package fleet

import (
	"fmt"
	"math"
	"strings"
)

// EfficiencyUnit is the unit a fuel efficiency value is expressed in.
type EfficiencyUnit string

const (
	UnitKmPerLiter   EfficiencyUnit = "KM/L"
	UnitKmPerKwh     EfficiencyUnit = "KM/KWH"
	UnitMilesPerGal  EfficiencyUnit = "MPG"
	UnitLitersPer100 EfficiencyUnit = "L/100KM"
)

// Efficiency bounds. Values outside this range are treated as data
// errors rather than plausible readings.
const (
	minEfficiency = 0.1
	maxEfficiency = 50.0
)

// kmPerLiterToMPG converts KM/L to miles per US gallon.
const kmPerLiterToMPG = 2.352

var efficiencyUnits = map[EfficiencyUnit]bool{
	UnitKmPerLiter:   true,
	UnitKmPerKwh:     true,
	UnitMilesPerGal:  true,
	UnitLitersPer100: true,
}

// ParseEfficiencyUnit normalizes and validates an efficiency unit.
func ParseEfficiencyUnit(value string) (EfficiencyUnit, error) {
	normalized := EfficiencyUnit(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", errValidation("efficiency unit", "must not be empty")
	}
	if !efficiencyUnits[normalized] {
		return "", errValidation("efficiency unit", "unknown unit "+string(normalized))
	}
	return normalized, nil
}

// FuelEfficiency is a measured fuel efficiency, rounded to two decimal
// places and bounded to (0.1, 50.0].
type FuelEfficiency struct {
	Value float64
	Unit  EfficiencyUnit
}

// NewFuelEfficiency validates a value and unit pair.
func NewFuelEfficiency(value float64, unit EfficiencyUnit) (FuelEfficiency, error) {
	if !efficiencyUnits[unit] {
		return FuelEfficiency{}, errValidation("efficiency unit", "unknown unit "+string(unit))
	}
	rounded := round2(value)
	if rounded < minEfficiency || rounded > maxEfficiency {
		return FuelEfficiency{}, errValidation("efficiency",
			fmt.Sprintf("%.2f outside allowed range (%.1f, %.1f]", rounded, minEfficiency, maxEfficiency))
	}
	return FuelEfficiency{Value: rounded, Unit: unit}, nil
}

// FuelEfficiencyFor builds a KM/L efficiency, the unit fuel records use.
func FuelEfficiencyFor(value float64) (FuelEfficiency, error) {
	return NewFuelEfficiency(value, UnitKmPerLiter)
}

// CalculateEfficiency derives efficiency from a distance and the
// consumption that covered it. Both inputs must be positive.
func CalculateEfficiency(distanceKm, consumption float64, unit EfficiencyUnit) (FuelEfficiency, error) {
	if distanceKm <= 0 {
		return FuelEfficiency{}, errValidation("distance", "must be positive")
	}
	if consumption <= 0 {
		return FuelEfficiency{}, errValidation("consumption", "must be positive")
	}
	return NewFuelEfficiency(distanceKm/consumption, unit)
}

// IsGood reports whether the reading clears the fleet's efficiency bar:
// 10.0 for KM/L, 5.0 for every other unit.
func (e FuelEfficiency) IsGood() bool {
	if e.Unit == UnitKmPerLiter {
		return e.Value >= 10.0
	}
	return e.Value >= 5.0
}

// IsPoor reports whether the reading falls below the poor threshold.
func (e FuelEfficiency) IsPoor() bool {
	if e.Unit == UnitKmPerLiter {
		return e.Value < 5.0
	}
	return e.Value < 2.0
}

// ConvertTo converts the reading to another unit. Only the pairs with a
// defined conversion are supported: KM/L with MPG, and KM/L with
// L/100KM. Any other pair is an error rather than a silent relabel.
func (e FuelEfficiency) ConvertTo(target EfficiencyUnit) (FuelEfficiency, error) {
	if !efficiencyUnits[target] {
		return FuelEfficiency{}, errValidation("efficiency unit", "unknown unit "+string(target))
	}
	if target == e.Unit {
		return e, nil
	}

	var converted float64
	switch {
	case e.Unit == UnitKmPerLiter && target == UnitMilesPerGal:
		converted = e.Value * kmPerLiterToMPG
	case e.Unit == UnitMilesPerGal && target == UnitKmPerLiter:
		converted = e.Value / kmPerLiterToMPG
	case e.Unit == UnitKmPerLiter && target == UnitLitersPer100:
		converted = 100 / e.Value
	case e.Unit == UnitLitersPer100 && target == UnitKmPerLiter:
		converted = 100 / e.Value
	default:
		return FuelEfficiency{}, errValidation("efficiency unit",
			fmt.Sprintf("no conversion from %s to %s", e.Unit, target))
	}

	return FuelEfficiency{Value: round2(converted), Unit: target}, nil
}

func (e FuelEfficiency) String() string {
	return fmt.Sprintf("%.2f %s", e.Value, e.Unit)
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
