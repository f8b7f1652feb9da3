package fleet

import "time"

// Vehicle is the aggregate root for a fleet vehicle. It owns the
// lifecycle state machine, the monotonic odometer, and the maintenance
// history. Fuel and mileage records reference it by id but live as
// aggregates of their own.
type Vehicle struct {
	Audit

	ID             VehicleID
	LicensePlate   LicensePlate
	Brand          string
	Model          string
	Year           int
	FuelType       FuelType
	EngineCapacity *float64
	CurrentMileage float64
	Status         VehicleStatus
	Color          string
	VIN            string
	Description    string

	maintenance []*MaintenanceRecord
}

// NewVehicle registers a vehicle. It starts in PENDING_REGISTRATION and
// must be activated before it can operate.
func NewVehicle(cmd RegisterVehicleCommand) (*Vehicle, VehicleRegistered, error) {
	if err := cmd.Validate(); err != nil {
		return nil, VehicleRegistered{}, err
	}

	now := time.Now().UTC()
	v := &Vehicle{
		Audit:          newAudit(now),
		ID:             NewVehicleID(),
		LicensePlate:   cmd.LicensePlate,
		Brand:          cmd.Brand,
		Model:          cmd.Model,
		Year:           cmd.Year,
		FuelType:       cmd.FuelType,
		EngineCapacity: cmd.EngineCapacity,
		CurrentMileage: cmd.CurrentMileage,
		Status:         StatusPendingRegistration,
		Color:          cmd.Color,
		VIN:            cmd.VIN,
		Description:    cmd.Description,
	}

	event := VehicleRegistered{VehicleID: v.ID, LicensePlate: v.LicensePlate, At: now}
	return v, event, nil
}

// Activate moves a newly registered vehicle into service.
func (v *Vehicle) Activate() (StatusChanged, error) {
	if v.Status != StatusPendingRegistration {
		return StatusChanged{}, &StateTransitionError{
			Op: "activate", Current: string(v.Status), Requires: string(StatusPendingRegistration),
		}
	}
	return v.changeStatus(StatusActive), nil
}

// PutInMaintenance pulls an operational vehicle into the workshop.
func (v *Vehicle) PutInMaintenance() (StatusChanged, error) {
	if !v.Status.IsOperational() {
		return StatusChanged{}, &StateTransitionError{
			Op: "put in maintenance", Current: string(v.Status), Requires: string(StatusActive),
		}
	}
	return v.changeStatus(StatusMaintenance), nil
}

// TakeOutOfService sidelines the vehicle. Allowed from any state except
// RETIRED.
func (v *Vehicle) TakeOutOfService() (StatusChanged, error) {
	if v.Status == StatusRetired {
		return StatusChanged{}, &StateTransitionError{
			Op: "take out of service", Current: string(v.Status), Requires: "any non-retired status",
		}
	}
	return v.changeStatus(StatusOutOfService), nil
}

// Reactivate returns a sidelined or serviced vehicle to operation.
func (v *Vehicle) Reactivate() (StatusChanged, error) {
	if v.Status != StatusMaintenance && v.Status != StatusOutOfService {
		return StatusChanged{}, &StateTransitionError{
			Op: "reactivate", Current: string(v.Status),
			Requires: string(StatusMaintenance) + " or " + string(StatusOutOfService),
		}
	}
	return v.changeStatus(StatusActive), nil
}

// Retire permanently removes the vehicle from the fleet. Terminal.
func (v *Vehicle) Retire() (StatusChanged, error) {
	if !v.Status.CanBeRetired() {
		return StatusChanged{}, &StateTransitionError{
			Op: "retire", Current: string(v.Status), Requires: "any non-retired status",
		}
	}
	return v.changeStatus(StatusRetired), nil
}

func (v *Vehicle) changeStatus(to VehicleStatus) StatusChanged {
	now := time.Now().UTC()
	previous := v.Status
	v.Status = to
	v.Touch(now)
	return StatusChanged{VehicleID: v.ID, Previous: previous, Current: to, At: now}
}

// UpdateMileage overwrites the odometer reading. The reading is
// monotonic: it never goes backwards.
func (v *Vehicle) UpdateMileage(newMileage float64) error {
	if newMileage < 0 {
		return errValidation("mileage", "must not be negative")
	}
	if newMileage < v.CurrentMileage {
		return errValidation("mileage", "must not be less than current mileage")
	}
	v.CurrentMileage = newMileage
	v.Touch(time.Now().UTC())
	return nil
}

// AddMaintenanceRecord attaches a maintenance record to the vehicle and
// back-links it so overdue checks can read the live odometer.
func (v *Vehicle) AddMaintenanceRecord(record *MaintenanceRecord) error {
	if record == nil {
		return errValidation("maintenance record", "must not be nil")
	}
	record.vehicle = v
	v.maintenance = append(v.maintenance, record)
	v.Touch(time.Now().UTC())
	return nil
}

// MaintenanceRecords returns the maintenance history. The slice is a
// copy; callers cannot reorder or drop records behind the aggregate's
// back.
func (v *Vehicle) MaintenanceRecords() []*MaintenanceRecord {
	records := make([]*MaintenanceRecord, len(v.maintenance))
	copy(records, v.maintenance)
	return records
}

// IsOperational reports whether the vehicle can be dispatched.
func (v *Vehicle) IsOperational() bool { return v.Status.IsOperational() }

// NeedsMaintenance reports whether the vehicle is in the workshop or
// has crossed the policy's high-mileage threshold.
func (v *Vehicle) NeedsMaintenance(policy MaintenancePolicy) bool {
	return v.Status == StatusMaintenance || v.CurrentMileage > policy.HighMileageThreshold
}
