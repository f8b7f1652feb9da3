package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFuelEfficiency(t *testing.T) {
	eff, err := NewFuelEfficiency(12.345, UnitKmPerLiter)
	require.NoError(t, err)
	assert.Equal(t, 12.35, eff.Value)
	assert.Equal(t, UnitKmPerLiter, eff.Unit)
}

func TestNewFuelEfficiency_Bounds(t *testing.T) {
	// Upper bound is inclusive
	eff, err := NewFuelEfficiency(50.0, UnitKmPerLiter)
	require.NoError(t, err)
	assert.Equal(t, 50.0, eff.Value)

	_, err = NewFuelEfficiency(50.01, UnitKmPerLiter)
	assert.Error(t, err)

	_, err = NewFuelEfficiency(0.05, UnitKmPerLiter)
	assert.Error(t, err)

	_, err = NewFuelEfficiency(-3, UnitKmPerLiter)
	assert.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestNewFuelEfficiency_UnknownUnit(t *testing.T) {
	_, err := NewFuelEfficiency(10, EfficiencyUnit("FURLONGS"))
	assert.Error(t, err)
}

func TestCalculateEfficiency(t *testing.T) {
	// 500 km on 50 liters is 10 km/l, right on the good threshold
	eff, err := CalculateEfficiency(500, 50, UnitKmPerLiter)
	require.NoError(t, err)
	assert.Equal(t, 10.0, eff.Value)
	assert.True(t, eff.IsGood())
	assert.False(t, eff.IsPoor())
}

func TestCalculateEfficiency_Rounding(t *testing.T) {
	eff, err := CalculateEfficiency(100, 7, UnitKmPerLiter)
	require.NoError(t, err)
	assert.Equal(t, 14.29, eff.Value)
}

func TestCalculateEfficiency_InvalidInputs(t *testing.T) {
	_, err := CalculateEfficiency(0, 50, UnitKmPerLiter)
	assert.Error(t, err)

	_, err = CalculateEfficiency(-100, 50, UnitKmPerLiter)
	assert.Error(t, err)

	_, err = CalculateEfficiency(500, 0, UnitKmPerLiter)
	assert.Error(t, err)

	_, err = CalculateEfficiency(500, -1, UnitKmPerLiter)
	assert.Error(t, err)
}

func TestFuelEfficiency_Thresholds(t *testing.T) {
	poor, _ := NewFuelEfficiency(4.99, UnitKmPerLiter)
	assert.True(t, poor.IsPoor())
	assert.False(t, poor.IsGood())

	middling, _ := NewFuelEfficiency(7.5, UnitKmPerLiter)
	assert.False(t, middling.IsPoor())
	assert.False(t, middling.IsGood())

	// Electric thresholds are lower
	ev, _ := NewFuelEfficiency(5.0, UnitKmPerKwh)
	assert.True(t, ev.IsGood())

	evPoor, _ := NewFuelEfficiency(1.9, UnitKmPerKwh)
	assert.True(t, evPoor.IsPoor())
}

func TestFuelEfficiency_Thresholds_NonKmPerLiterUnits(t *testing.T) {
	// Only KM/L uses the 10.0/5.0 bar, every other unit gets 5.0/2.0
	mpg, _ := NewFuelEfficiency(7.0, UnitMilesPerGal)
	assert.True(t, mpg.IsGood())
	assert.False(t, mpg.IsPoor())

	mpgLow, _ := NewFuelEfficiency(4.0, UnitMilesPerGal)
	assert.False(t, mpgLow.IsGood())
	assert.False(t, mpgLow.IsPoor())

	mpgPoor, _ := NewFuelEfficiency(1.9, UnitMilesPerGal)
	assert.True(t, mpgPoor.IsPoor())

	per100, _ := NewFuelEfficiency(6.0, UnitLitersPer100)
	assert.True(t, per100.IsGood())
	assert.False(t, per100.IsPoor())
}

func TestFuelEfficiencyFor(t *testing.T) {
	eff, err := FuelEfficiencyFor(460.0 / 40.0)
	require.NoError(t, err)
	assert.Equal(t, 11.5, eff.Value)
	assert.Equal(t, UnitKmPerLiter, eff.Unit)

	_, err = FuelEfficiencyFor(0)
	assert.Error(t, err)
}

func TestFuelEfficiency_ConvertTo(t *testing.T) {
	eff, _ := NewFuelEfficiency(10, UnitKmPerLiter)

	mpg, err := eff.ConvertTo(UnitMilesPerGal)
	require.NoError(t, err)
	assert.Equal(t, 23.52, mpg.Value)
	assert.Equal(t, UnitMilesPerGal, mpg.Unit)

	back, err := mpg.ConvertTo(UnitKmPerLiter)
	require.NoError(t, err)
	assert.Equal(t, 10.0, back.Value)

	per100, err := eff.ConvertTo(UnitLitersPer100)
	require.NoError(t, err)
	assert.Equal(t, 10.0, per100.Value)

	same, err := eff.ConvertTo(UnitKmPerLiter)
	require.NoError(t, err)
	assert.Equal(t, eff, same)
}

func TestFuelEfficiency_ConvertTo_UnsupportedPair(t *testing.T) {
	ev, _ := NewFuelEfficiency(4, UnitKmPerKwh)

	_, err := ev.ConvertTo(UnitMilesPerGal)
	assert.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestParseEfficiencyUnit(t *testing.T) {
	unit, err := ParseEfficiencyUnit(" km/l ")
	require.NoError(t, err)
	assert.Equal(t, UnitKmPerLiter, unit)

	_, err = ParseEfficiencyUnit("")
	assert.Error(t, err)

	_, err = ParseEfficiencyUnit("KNOTS")
	assert.Error(t, err)
}

func TestFuelEfficiency_String(t *testing.T) {
	eff, _ := NewFuelEfficiency(9.5, UnitKmPerLiter)
	assert.Equal(t, "9.50 KM/L", eff.String())
}
