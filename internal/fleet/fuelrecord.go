package fleet

import (
	"time"

	"github.com/google/uuid"
)

// FuelRecord is an independent aggregate recording one fuel purchase.
// It references the vehicle by id and snapshots the plate; creating a
// record does not lock or version-check the vehicle.
type FuelRecord struct {
	Audit

	ID              string
	VehicleID       VehicleID
	VehiclePlate    string
	Date            time.Time
	FuelType        FuelType
	Quantity        float64
	TotalCost       float64
	CurrentMileage  float64
	Station         string
	Location        string
	PreviousMileage *float64

	// Efficiency is derived at creation and update, and only when the
	// previous mileage is known and the odometer moved forward.
	Efficiency *FuelEfficiency
}

// NewFuelRecord records a fuel purchase.
func NewFuelRecord(cmd CreateFuelRecordCommand) (*FuelRecord, FuelRecordCreated, error) {
	if err := cmd.Validate(); err != nil {
		return nil, FuelRecordCreated{}, err
	}

	now := time.Now().UTC()
	r := &FuelRecord{
		Audit:           newAudit(now),
		ID:              uuid.NewString(),
		VehicleID:       cmd.VehicleID,
		VehiclePlate:    cmd.VehiclePlate,
		Date:            cmd.Date,
		FuelType:        cmd.FuelType,
		Quantity:        cmd.Quantity,
		TotalCost:       cmd.TotalCost,
		CurrentMileage:  cmd.CurrentMileage,
		Station:         cmd.Station,
		Location:        cmd.Location,
		PreviousMileage: cmd.PreviousMileage,
	}

	if err := r.recomputeEfficiency(); err != nil {
		return nil, FuelRecordCreated{}, err
	}

	event := FuelRecordCreated{RecordID: r.ID, VehicleID: r.VehicleID, Efficiency: r.Efficiency, At: now}
	return r, event, nil
}

// Update replaces the mutable purchase details and recomputes the
// derived efficiency.
func (r *FuelRecord) Update(fuelType FuelType, quantity, totalCost, currentMileage float64, station, location string) error {
	if err := validateFuelRecordFields(r.Date, fuelType, quantity, totalCost, currentMileage); err != nil {
		return err
	}

	r.FuelType = fuelType
	r.Quantity = quantity
	r.TotalCost = totalCost
	r.CurrentMileage = currentMileage
	r.Station = station
	r.Location = location

	if err := r.recomputeEfficiency(); err != nil {
		return err
	}
	r.Touch(time.Now().UTC())
	return nil
}

func (r *FuelRecord) recomputeEfficiency() error {
	if r.PreviousMileage == nil || r.CurrentMileage <= *r.PreviousMileage {
		return nil
	}
	eff, err := FuelEfficiencyFor((r.CurrentMileage - *r.PreviousMileage) / r.Quantity)
	if err != nil {
		return err
	}
	r.Efficiency = &eff
	return nil
}

// CostPerLiter returns the unit price, or 0 for a zero quantity.
func (r *FuelRecord) CostPerLiter() float64 {
	if r.Quantity == 0 {
		return 0
	}
	return round2(r.TotalCost / r.Quantity)
}

// DistanceTraveled returns the odometer delta since the previous fill,
// or 0 when the previous mileage is unknown.
func (r *FuelRecord) DistanceTraveled() float64 {
	if r.PreviousMileage == nil {
		return 0
	}
	return r.CurrentMileage - *r.PreviousMileage
}

// HasGoodEfficiency reports whether the derived efficiency clears the
// good threshold. False when no efficiency could be derived.
func (r *FuelRecord) HasGoodEfficiency() bool {
	return r.Efficiency != nil && r.Efficiency.IsGood()
}
