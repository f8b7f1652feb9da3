package fleet

import (
	"time"

	"github.com/google/uuid"
)

// MileageRecord is an independent aggregate recording one trip between
// two odometer readings.
type MileageRecord struct {
	Audit

	ID            string
	VehicleID     VehicleID
	Date          time.Time
	StartOdometer float64
	EndOdometer   float64
	// Distance is derived from the odometer pair and recomputed on
	// every update.
	Distance float64
	Purpose  MileagePurpose
	DriverID string
	Route    string
	Notes    string
}

// NewMileageRecord records a trip.
func NewMileageRecord(cmd CreateMileageRecordCommand) (*MileageRecord, MileageRecordCreated, error) {
	if err := cmd.Validate(); err != nil {
		return nil, MileageRecordCreated{}, err
	}

	now := time.Now().UTC()
	r := &MileageRecord{
		Audit:         newAudit(now),
		ID:            uuid.NewString(),
		VehicleID:     cmd.VehicleID,
		Date:          cmd.Date,
		StartOdometer: cmd.StartOdometer,
		EndOdometer:   cmd.EndOdometer,
		Distance:      cmd.EndOdometer - cmd.StartOdometer,
		Purpose:       cmd.Purpose,
		DriverID:      cmd.DriverID,
		Route:         cmd.Route,
		Notes:         cmd.Notes,
	}

	event := MileageRecordCreated{RecordID: r.ID, VehicleID: r.VehicleID, Distance: r.Distance, At: now}
	return r, event, nil
}

// Update replaces the trip details and recomputes the distance.
func (r *MileageRecord) Update(date time.Time, startOdometer, endOdometer float64,
	purpose MileagePurpose, driverID, route, notes string) error {

	if err := validateMileageRecordFields(date, startOdometer, endOdometer, purpose); err != nil {
		return err
	}

	r.Date = date
	r.StartOdometer = startOdometer
	r.EndOdometer = endOdometer
	r.Distance = endOdometer - startOdometer
	r.Purpose = purpose
	r.DriverID = driverID
	r.Route = route
	r.Notes = notes
	r.Touch(time.Now().UTC())
	return nil
}

// IsBusinessRelated reports whether the trip counts as business use.
func (r *MileageRecord) IsBusinessRelated() bool { return r.Purpose.IsBusinessRelated() }

// IsOperational reports whether the trip was a delivery or pickup.
func (r *MileageRecord) IsOperational() bool { return r.Purpose.IsOperational() }

// IsMaintenanceRelated reports whether the trip was a maintenance run.
func (r *MileageRecord) IsMaintenanceRelated() bool { return r.Purpose.IsMaintenanceRelated() }

// AverageSpeed returns km/h for the given trip duration, or 0 when the
// duration is unknown or nonsensical.
func (r *MileageRecord) AverageSpeed(hoursTraveled float64) float64 {
	if hoursTraveled <= 0 {
		return 0
	}
	return round2(r.Distance / hoursTraveled)
}
