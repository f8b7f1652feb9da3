package fleet

import (
	"strings"

	"github.com/google/uuid"
)

// VehicleID is the opaque identity of a vehicle, generated once at
// registration and referenced by fuel and mileage records.
type VehicleID string

// NewVehicleID generates a fresh vehicle identity.
func NewVehicleID() VehicleID {
	return VehicleID(uuid.NewString())
}

// ParseVehicleID validates an externally supplied vehicle id.
func ParseVehicleID(value string) (VehicleID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errValidation("vehicle id", "must not be empty")
	}
	return VehicleID(value), nil
}

func (id VehicleID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id VehicleID) IsZero() bool { return id == "" }
