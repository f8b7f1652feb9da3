package fleet

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaintenanceRecord is a child entity of Vehicle tracking one piece of
// maintenance work, either already performed or scheduled for later.
// It is persisted inside the owning vehicle, never on its own.
type MaintenanceRecord struct {
	ID                     string
	MaintenanceType        string
	Description            string
	MileageAtMaintenance   float64
	PerformedBy            string
	MaintenanceDate        time.Time
	NextMaintenanceMileage *float64
	NextMaintenanceDate    *time.Time
	Scheduled              bool

	cost    *float64
	vehicle *Vehicle
}

// NewMaintenanceRecord records maintenance that has already been
// performed.
func NewMaintenanceRecord(maintenanceType, description string, mileage, cost float64,
	performedBy string, date time.Time, nextMileage *float64, nextDate *time.Time) (*MaintenanceRecord, error) {

	if err := validateMaintenanceFields(maintenanceType, mileage, date); err != nil {
		return nil, err
	}
	if cost < 0 {
		return nil, errValidation("cost", "must not be negative")
	}

	return &MaintenanceRecord{
		ID:                     uuid.NewString(),
		MaintenanceType:        maintenanceType,
		Description:            description,
		MileageAtMaintenance:   mileage,
		cost:                   &cost,
		PerformedBy:            performedBy,
		MaintenanceDate:        date,
		NextMaintenanceMileage: nextMileage,
		NextMaintenanceDate:    nextDate,
	}, nil
}

// NewScheduledMaintenance books maintenance for the future. Cost and
// performer stay unset until the work is completed.
func NewScheduledMaintenance(maintenanceType, description string, scheduledDate time.Time,
	scheduledMileage float64) (*MaintenanceRecord, error) {

	if strings.TrimSpace(maintenanceType) == "" {
		return nil, errValidation("maintenance type", "must not be empty")
	}
	if scheduledMileage < 0 {
		return nil, errValidation("scheduled mileage", "must not be negative")
	}
	if scheduledDate.IsZero() {
		return nil, errValidation("scheduled date", "must be set")
	}

	next := scheduledDate
	return &MaintenanceRecord{
		ID:                   uuid.NewString(),
		MaintenanceType:      maintenanceType,
		Description:          description,
		MileageAtMaintenance: scheduledMileage,
		MaintenanceDate:      scheduledDate,
		NextMaintenanceDate:  &next,
		Scheduled:            true,
	}, nil
}

// MarkAsCompleted closes out a scheduled record with the actual work
// details. One-way: a completed record cannot be rescheduled.
func (m *MaintenanceRecord) MarkAsCompleted(actualMileage, actualCost float64, performedBy string) error {
	if !m.Scheduled {
		return &StateTransitionError{
			Op: "mark as completed", Current: "completed", Requires: "scheduled",
		}
	}
	m.MileageAtMaintenance = actualMileage
	m.cost = &actualCost
	m.PerformedBy = performedBy
	m.MaintenanceDate = time.Now().UTC()
	m.Scheduled = false
	return nil
}

// IsOverdue reports whether completed maintenance should have been
// followed up by now, either by date or by the owning vehicle's
// odometer reaching the next maintenance mileage.
func (m *MaintenanceRecord) IsOverdue(now time.Time) bool {
	if m.Scheduled {
		return false
	}
	if m.NextMaintenanceDate != nil && now.After(*m.NextMaintenanceDate) {
		return true
	}
	if m.NextMaintenanceMileage != nil && m.vehicle != nil {
		return m.vehicle.CurrentMileage >= *m.NextMaintenanceMileage
	}
	return false
}

// IsDueSoon reports whether the follow-up falls inside the policy's
// due-soon window, by date or by remaining mileage.
func (m *MaintenanceRecord) IsDueSoon(now time.Time, policy MaintenancePolicy) bool {
	if m.Scheduled {
		return false
	}
	if m.NextMaintenanceDate != nil && now.After(m.NextMaintenanceDate.Add(-policy.DueSoonWindow)) {
		return true
	}
	if m.NextMaintenanceMileage != nil && m.vehicle != nil {
		return m.vehicle.CurrentMileage >= *m.NextMaintenanceMileage-policy.DueSoonMileage
	}
	return false
}

// Cost returns the recorded cost, or 0 when none was recorded yet.
func (m *MaintenanceRecord) Cost() float64 {
	if m.cost == nil {
		return 0
	}
	return *m.cost
}

// Vehicle returns the owning vehicle, or nil for a detached record.
func (m *MaintenanceRecord) Vehicle() *Vehicle { return m.vehicle }
