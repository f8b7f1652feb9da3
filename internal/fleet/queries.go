package fleet

import "time"

// VehicleByIDQuery looks up a single vehicle.
type VehicleByIDQuery struct {
	VehicleID VehicleID
}

func (q VehicleByIDQuery) Validate() error {
	if q.VehicleID.IsZero() {
		return errValidation("vehicle id", "must not be empty")
	}
	return nil
}

// VehiclesByStatusQuery lists vehicles in a given lifecycle state.
type VehiclesByStatusQuery struct {
	Status VehicleStatus
}

func (q VehiclesByStatusQuery) Validate() error {
	if _, ok := statusTransitions[q.Status]; !ok {
		return errValidation("vehicle status", "unknown status "+string(q.Status))
	}
	return nil
}

// RecordsByVehicleQuery lists fuel or mileage records for one vehicle.
type RecordsByVehicleQuery struct {
	VehicleID VehicleID
}

func (q RecordsByVehicleQuery) Validate() error {
	if q.VehicleID.IsZero() {
		return errValidation("vehicle id", "must not be empty")
	}
	return nil
}

// RecordsByDateRangeQuery lists records inside a closed date range.
type RecordsByDateRangeQuery struct {
	Start time.Time
	End   time.Time
}

func (q RecordsByDateRangeQuery) Validate() error {
	if q.Start.IsZero() || q.End.IsZero() {
		return errValidation("date range", "start and end must be set")
	}
	if q.Start.After(q.End) {
		return errValidation("date range", "start must not be after end")
	}
	return nil
}
