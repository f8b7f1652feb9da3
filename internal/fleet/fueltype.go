package fleet

import "strings"

// FuelType is the closed set of fuel types a vehicle can run on.
type FuelType string

const (
	FuelGasoline FuelType = "GASOLINE"
	FuelDiesel   FuelType = "DIESEL"
	FuelElectric FuelType = "ELECTRIC"
	FuelHybrid   FuelType = "HYBRID"
	FuelLPG      FuelType = "LPG"
	FuelCNG      FuelType = "CNG"
)

var fuelTypes = map[FuelType]bool{
	FuelGasoline: true,
	FuelDiesel:   true,
	FuelElectric: true,
	FuelHybrid:   true,
	FuelLPG:      true,
	FuelCNG:      true,
}

// ParseFuelType normalizes and validates a fuel type value.
func ParseFuelType(value string) (FuelType, error) {
	normalized := FuelType(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", errValidation("fuel type", "must not be empty")
	}
	if !fuelTypes[normalized] {
		return "", errValidation("fuel type", "unknown fuel type "+string(normalized))
	}
	return normalized, nil
}

// IsFossil reports whether the fuel type burns fossil fuel.
func (f FuelType) IsFossil() bool {
	switch f {
	case FuelGasoline, FuelDiesel, FuelLPG, FuelCNG:
		return true
	}
	return false
}

// IsElectricCapable reports whether the vehicle can run on electricity.
func (f FuelType) IsElectricCapable() bool {
	return f == FuelElectric || f == FuelHybrid
}

func (f FuelType) String() string { return string(f) }
