package fleet

import "time"

// MaintenancePolicy holds the fleet-wide thresholds that drive
// maintenance checks. The values are configuration, not domain
// constants; config.Load reads overrides from the environment.
type MaintenancePolicy struct {
	// HighMileageThreshold is the odometer reading above which a
	// vehicle is flagged as needing maintenance regardless of status.
	HighMileageThreshold float64
	// DueSoonWindow is how far ahead of the next maintenance date a
	// record starts counting as due soon.
	DueSoonWindow time.Duration
	// DueSoonMileage is how close to the next maintenance mileage a
	// vehicle may get before the record counts as due soon.
	DueSoonMileage float64
}

// DefaultMaintenancePolicy returns the stock thresholds: 100000 km,
// 30 days, 1000 km.
func DefaultMaintenancePolicy() MaintenancePolicy {
	return MaintenancePolicy{
		HighMileageThreshold: 100000,
		DueSoonWindow:        30 * 24 * time.Hour,
		DueSoonMileage:       1000,
	}
}
