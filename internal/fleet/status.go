package fleet

import "strings"

// VehicleStatus is the lifecycle state of a vehicle.
type VehicleStatus string

const (
	StatusPendingRegistration VehicleStatus = "PENDING_REGISTRATION"
	StatusActive              VehicleStatus = "ACTIVE"
	StatusMaintenance         VehicleStatus = "MAINTENANCE"
	StatusOutOfService        VehicleStatus = "OUT_OF_SERVICE"
	StatusRetired             VehicleStatus = "RETIRED"
)

// statusTransitions is the directed graph of allowed lifecycle moves.
// RETIRED is terminal.
var statusTransitions = map[VehicleStatus][]VehicleStatus{
	StatusPendingRegistration: {StatusActive, StatusOutOfService, StatusRetired},
	StatusActive:              {StatusMaintenance, StatusOutOfService, StatusRetired},
	StatusMaintenance:         {StatusActive, StatusOutOfService, StatusRetired},
	StatusOutOfService:        {StatusActive, StatusRetired},
	StatusRetired:             {},
}

// ParseVehicleStatus normalizes and validates a status value.
func ParseVehicleStatus(value string) (VehicleStatus, error) {
	normalized := VehicleStatus(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", errValidation("vehicle status", "must not be empty")
	}
	if _, ok := statusTransitions[normalized]; !ok {
		return "", errValidation("vehicle status", "unknown status "+string(normalized))
	}
	return normalized, nil
}

// CanTransition reports whether from -> to is an allowed lifecycle move.
func CanTransition(from, to VehicleStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsOperational reports whether the vehicle can be used for trips.
func (s VehicleStatus) IsOperational() bool { return s == StatusActive }

// CanBeMaintained reports whether maintenance work may be recorded.
func (s VehicleStatus) CanBeMaintained() bool {
	return s == StatusActive || s == StatusMaintenance
}

// CanBeRetired reports whether the vehicle may still be retired.
func (s VehicleStatus) CanBeRetired() bool { return s != StatusRetired }

func (s VehicleStatus) String() string { return string(s) }
