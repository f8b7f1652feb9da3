package fleet

import "strings"

// MileagePurpose classifies what a recorded trip was driven for.
type MileagePurpose string

const (
	PurposeDelivery    MileagePurpose = "DELIVERY"
	PurposePickup      MileagePurpose = "PICKUP"
	PurposeMaintenance MileagePurpose = "MAINTENANCE"
	PurposePersonal    MileagePurpose = "PERSONAL"
	PurposeRelocation  MileagePurpose = "RELOCATION"
	PurposeTraining    MileagePurpose = "TRAINING"
	PurposeTesting     MileagePurpose = "TESTING"
)

var mileagePurposes = map[MileagePurpose]bool{
	PurposeDelivery:    true,
	PurposePickup:      true,
	PurposeMaintenance: true,
	PurposePersonal:    true,
	PurposeRelocation:  true,
	PurposeTraining:    true,
	PurposeTesting:     true,
}

// ParseMileagePurpose normalizes and validates a trip purpose.
func ParseMileagePurpose(value string) (MileagePurpose, error) {
	normalized := MileagePurpose(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", errValidation("mileage purpose", "must not be empty")
	}
	if !mileagePurposes[normalized] {
		return "", errValidation("mileage purpose", "unknown purpose "+string(normalized))
	}
	return normalized, nil
}

// IsBusinessRelated reports whether the trip counts as business mileage.
// Everything except personal use does.
func (p MileagePurpose) IsBusinessRelated() bool {
	return mileagePurposes[p] && p != PurposePersonal
}

// IsOperational reports whether the trip served a delivery or pickup.
func (p MileagePurpose) IsOperational() bool {
	return p == PurposeDelivery || p == PurposePickup
}

// IsMaintenanceRelated reports whether the trip was a maintenance run.
func (p MileagePurpose) IsMaintenanceRelated() bool {
	return p == PurposeMaintenance
}

func (p MileagePurpose) String() string { return string(p) }
