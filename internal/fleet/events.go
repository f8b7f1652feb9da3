package fleet

import "time"

// Event is something that happened inside an aggregate. Domain
// operations return their events explicitly; the service layer decides
// when and where they are published.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// VehicleRegistered is emitted when a vehicle enters the fleet.
type VehicleRegistered struct {
	VehicleID    VehicleID    `json:"vehicle_id"`
	LicensePlate LicensePlate `json:"license_plate"`
	At           time.Time    `json:"at"`
}

func (VehicleRegistered) EventName() string       { return "fleet.vehicle.registered" }
func (e VehicleRegistered) OccurredAt() time.Time { return e.At }

// StatusChanged is emitted on every vehicle lifecycle transition.
type StatusChanged struct {
	VehicleID VehicleID     `json:"vehicle_id"`
	Previous  VehicleStatus `json:"previous"`
	Current   VehicleStatus `json:"current"`
	At        time.Time     `json:"at"`
}

func (StatusChanged) EventName() string       { return "fleet.vehicle.status_changed" }
func (e StatusChanged) OccurredAt() time.Time { return e.At }

// FuelRecordCreated is emitted when a fuel purchase is recorded.
// Efficiency is nil when the record had no previous mileage to derive
// a distance from.
type FuelRecordCreated struct {
	RecordID   string          `json:"record_id"`
	VehicleID  VehicleID       `json:"vehicle_id"`
	Efficiency *FuelEfficiency `json:"efficiency,omitempty"`
	At         time.Time       `json:"at"`
}

func (FuelRecordCreated) EventName() string       { return "fleet.fuel_record.created" }
func (e FuelRecordCreated) OccurredAt() time.Time { return e.At }

// MileageRecordCreated is emitted when a trip is recorded.
type MileageRecordCreated struct {
	RecordID  string    `json:"record_id"`
	VehicleID VehicleID `json:"vehicle_id"`
	Distance  float64   `json:"distance"`
	At        time.Time `json:"at"`
}

func (MileageRecordCreated) EventName() string       { return "fleet.mileage_record.created" }
func (e MileageRecordCreated) OccurredAt() time.Time { return e.At }
