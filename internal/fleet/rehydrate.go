package fleet

import "time"

// Rehydration entry points for the persistence layer. These rebuild
// aggregates from stored state without re-running creation validation
// or emitting events.

// RehydrateMaintenanceRecord rebuilds a stored maintenance record.
func RehydrateMaintenanceRecord(id, maintenanceType, description string, mileage float64,
	cost *float64, performedBy string, date time.Time,
	nextMileage *float64, nextDate *time.Time, scheduled bool) *MaintenanceRecord {

	return &MaintenanceRecord{
		ID:                     id,
		MaintenanceType:        maintenanceType,
		Description:            description,
		MileageAtMaintenance:   mileage,
		cost:                   cost,
		PerformedBy:            performedBy,
		MaintenanceDate:        date,
		NextMaintenanceMileage: nextMileage,
		NextMaintenanceDate:    nextDate,
		Scheduled:              scheduled,
	}
}

// RestoreMaintenanceHistory attaches stored maintenance records to a
// rehydrated vehicle, re-establishing the back-links.
func (v *Vehicle) RestoreMaintenanceHistory(records []*MaintenanceRecord) {
	v.maintenance = make([]*MaintenanceRecord, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		record.vehicle = v
		v.maintenance = append(v.maintenance, record)
	}
}

// CostRef exposes the raw cost pointer for persistence mapping, keeping
// the nil/zero distinction a plain Cost() call would erase.
func (m *MaintenanceRecord) CostRef() *float64 { return m.cost }
