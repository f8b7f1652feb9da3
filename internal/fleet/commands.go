package fleet

import (
	"fmt"
	"strings"
	"time"
)

// recordDateSlack is how far into the future a fuel or mileage record
// date may sit, to absorb clock skew between callers and the server.
const recordDateSlack = 5 * time.Minute

// maintenanceDateSlack is the equivalent allowance for maintenance
// dates, which are entered by hand and often rounded to a day.
const maintenanceDateSlack = 24 * time.Hour

// RegisterVehicleCommand carries everything needed to add a vehicle to
// the fleet. Validate runs the same field checks the Vehicle factory
// applies, so malformed input is caught before the aggregate is built.
type RegisterVehicleCommand struct {
	LicensePlate   LicensePlate
	Brand          string
	Model          string
	Year           int
	FuelType       FuelType
	EngineCapacity *float64
	CurrentMileage float64
	Color          string
	VIN            string
	Description    string
}

func (c RegisterVehicleCommand) Validate() error {
	return validateVehicleFields(c.LicensePlate, c.Brand, c.Model, c.Year, c.FuelType, c.CurrentMileage)
}

// CreateFuelRecordCommand carries a fuel purchase to be recorded
// against a vehicle.
type CreateFuelRecordCommand struct {
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
}

func (c CreateFuelRecordCommand) Validate() error {
	if c.VehicleID.IsZero() {
		return errValidation("vehicle id", "must not be empty")
	}
	if strings.TrimSpace(c.VehiclePlate) == "" {
		return errValidation("vehicle plate", "must not be empty")
	}
	return validateFuelRecordFields(c.Date, c.FuelType, c.Quantity, c.TotalCost, c.CurrentMileage)
}

// CreateMileageRecordCommand carries a trip to be recorded against a
// vehicle.
type CreateMileageRecordCommand struct {
	VehicleID     VehicleID
	Date          time.Time
	StartOdometer float64
	EndOdometer   float64
	Purpose       MileagePurpose
	DriverID      string
	Route         string
	Notes         string
}

func (c CreateMileageRecordCommand) Validate() error {
	if c.VehicleID.IsZero() {
		return errValidation("vehicle id", "must not be empty")
	}
	return validateMileageRecordFields(c.Date, c.StartOdometer, c.EndOdometer, c.Purpose)
}

// UpdateVehicleStatusCommand requests a lifecycle transition for a
// vehicle. Which mutator runs is decided by the service from NewStatus.
type UpdateVehicleStatusCommand struct {
	VehicleID VehicleID
	NewStatus VehicleStatus
}

func (c UpdateVehicleStatusCommand) Validate() error {
	if c.VehicleID.IsZero() {
		return errValidation("vehicle id", "must not be empty")
	}
	if _, ok := statusTransitions[c.NewStatus]; !ok {
		return errValidation("vehicle status", "unknown status "+string(c.NewStatus))
	}
	return nil
}

// ScheduleMaintenanceCommand books future maintenance for a vehicle.
type ScheduleMaintenanceCommand struct {
	VehicleID        VehicleID
	MaintenanceType  string
	Description      string
	ScheduledDate    time.Time
	ScheduledMileage float64
}

func (c ScheduleMaintenanceCommand) Validate() error {
	if c.VehicleID.IsZero() {
		return errValidation("vehicle id", "must not be empty")
	}
	if strings.TrimSpace(c.MaintenanceType) == "" {
		return errValidation("maintenance type", "must not be empty")
	}
	if c.ScheduledMileage < 0 {
		return errValidation("scheduled mileage", "must not be negative")
	}
	if c.ScheduledDate.IsZero() {
		return errValidation("scheduled date", "must be set")
	}
	return nil
}

func validateVehicleFields(plate LicensePlate, brand, model string, year int, fuelType FuelType, mileage float64) error {
	if plate == "" {
		return errValidation("license plate", "must not be empty")
	}
	if strings.TrimSpace(brand) == "" {
		return errValidation("brand", "must not be empty")
	}
	if strings.TrimSpace(model) == "" {
		return errValidation("model", "must not be empty")
	}
	if maxYear := time.Now().Year() + 1; year < 1900 || year > maxYear {
		return errValidation("year", fmt.Sprintf("%d outside allowed range 1900-%d", year, maxYear))
	}
	if !fuelTypes[fuelType] {
		return errValidation("fuel type", "unknown fuel type "+string(fuelType))
	}
	if mileage < 0 {
		return errValidation("current mileage", "must not be negative")
	}
	return nil
}

func validateFuelRecordFields(date time.Time, fuelType FuelType, quantity, totalCost, currentMileage float64) error {
	if date.IsZero() {
		return errValidation("date", "must be set")
	}
	if date.After(time.Now().Add(recordDateSlack)) {
		return errValidation("date", "must not be in the future")
	}
	if !fuelTypes[fuelType] {
		return errValidation("fuel type", "unknown fuel type "+string(fuelType))
	}
	if quantity <= 0 {
		return errValidation("quantity", "must be positive")
	}
	if totalCost < 0 {
		return errValidation("total cost", "must not be negative")
	}
	if currentMileage < 0 {
		return errValidation("current mileage", "must not be negative")
	}
	return nil
}

func validateMileageRecordFields(date time.Time, startOdometer, endOdometer float64, purpose MileagePurpose) error {
	if date.IsZero() {
		return errValidation("date", "must be set")
	}
	if date.After(time.Now().Add(recordDateSlack)) {
		return errValidation("date", "must not be in the future")
	}
	if startOdometer < 0 {
		return errValidation("start odometer", "must not be negative")
	}
	if endOdometer < 0 {
		return errValidation("end odometer", "must not be negative")
	}
	if endOdometer <= startOdometer {
		return errValidation("end odometer", "must be greater than start odometer")
	}
	if !mileagePurposes[purpose] {
		return errValidation("mileage purpose", "unknown purpose "+string(purpose))
	}
	return nil
}

func validateMaintenanceFields(maintenanceType string, mileage float64, date time.Time) error {
	if strings.TrimSpace(maintenanceType) == "" {
		return errValidation("maintenance type", "must not be empty")
	}
	if mileage < 0 {
		return errValidation("mileage", "must not be negative")
	}
	if date.IsZero() {
		return errValidation("maintenance date", "must be set")
	}
	if date.After(time.Now().Add(maintenanceDateSlack)) {
		return errValidation("maintenance date", "must not be in the future")
	}
	return nil
}
