package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaintenanceRecord(t *testing.T) {
	record, err := NewMaintenanceRecord("oil change", "routine service", 50000, 85.50,
		"Main Garage", time.Now(), nil, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.False(t, record.Scheduled)
	assert.Equal(t, 85.50, record.Cost())
	assert.Nil(t, record.Vehicle())
}

func TestNewMaintenanceRecord_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewMaintenanceRecord("", "desc", 50000, 85, "garage", now, nil, nil)
	assert.Error(t, err)

	_, err = NewMaintenanceRecord("oil change", "desc", -1, 85, "garage", now, nil, nil)
	assert.Error(t, err)

	_, err = NewMaintenanceRecord("oil change", "desc", 50000, -1, "garage", now, nil, nil)
	assert.Error(t, err)

	_, err = NewMaintenanceRecord("oil change", "desc", 50000, 85, "garage", time.Time{}, nil, nil)
	assert.Error(t, err)

	// Dates are allowed up to a day ahead, not further
	_, err = NewMaintenanceRecord("oil change", "desc", 50000, 85, "garage",
		now.Add(48*time.Hour), nil, nil)
	assert.Error(t, err)
}

func TestNewScheduledMaintenance(t *testing.T) {
	scheduledDate := time.Now().Add(14 * 24 * time.Hour)
	record, err := NewScheduledMaintenance("inspection", "annual", scheduledDate, 60000)
	require.NoError(t, err)

	assert.True(t, record.Scheduled)
	assert.Equal(t, 0.0, record.Cost())
	assert.Empty(t, record.PerformedBy)
	require.NotNil(t, record.NextMaintenanceDate)
	assert.Equal(t, scheduledDate, *record.NextMaintenanceDate)
}

func TestNewScheduledMaintenance_Validation(t *testing.T) {
	future := time.Now().Add(time.Hour)

	_, err := NewScheduledMaintenance("", "desc", future, 60000)
	assert.Error(t, err)

	_, err = NewScheduledMaintenance("inspection", "desc", future, -1)
	assert.Error(t, err)

	_, err = NewScheduledMaintenance("inspection", "desc", time.Time{}, 60000)
	assert.Error(t, err)
}

func TestMaintenanceRecord_MarkAsCompleted(t *testing.T) {
	record, err := NewScheduledMaintenance("inspection", "annual",
		time.Now().Add(24*time.Hour), 60000)
	require.NoError(t, err)

	require.NoError(t, record.MarkAsCompleted(60120, 150, "Main Garage"))
	assert.False(t, record.Scheduled)
	assert.Equal(t, 60120.0, record.MileageAtMaintenance)
	assert.Equal(t, 150.0, record.Cost())
	assert.Equal(t, "Main Garage", record.PerformedBy)

	// Completion is one way
	err = record.MarkAsCompleted(60500, 90, "Other Garage")
	var transitionErr *StateTransitionError
	assert.ErrorAs(t, err, &transitionErr)
}

func TestMaintenanceRecord_CompletedRecordCannotBeCompleted(t *testing.T) {
	record, err := NewMaintenanceRecord("oil change", "routine", 50000, 85,
		"garage", time.Now(), nil, nil)
	require.NoError(t, err)

	assert.Error(t, record.MarkAsCompleted(51000, 90, "garage"))
}

func TestMaintenanceRecord_IsOverdue(t *testing.T) {
	now := time.Now()

	past := now.Add(-24 * time.Hour)
	record, err := NewMaintenanceRecord("oil change", "routine", 50000, 85,
		"garage", now.Add(-60*24*time.Hour), nil, &past)
	require.NoError(t, err)
	assert.True(t, record.IsOverdue(now))

	future := now.Add(60 * 24 * time.Hour)
	record, err = NewMaintenanceRecord("oil change", "routine", 50000, 85,
		"garage", now, nil, &future)
	require.NoError(t, err)
	assert.False(t, record.IsOverdue(now))

	// Scheduled work is never overdue
	scheduled, err := NewScheduledMaintenance("inspection", "annual", now.Add(-time.Hour), 60000)
	require.NoError(t, err)
	assert.False(t, scheduled.IsOverdue(now))
}

func TestMaintenanceRecord_IsOverdueByMileage(t *testing.T) {
	vehicle, _, _ := NewVehicle(validRegisterCommand())
	require.NoError(t, vehicle.UpdateMileage(55000))

	nextMileage := 55000.0
	record, err := NewMaintenanceRecord("oil change", "routine", 50000, 85,
		"garage", time.Now(), &nextMileage, nil)
	require.NoError(t, err)
	require.NoError(t, vehicle.AddMaintenanceRecord(record))

	assert.True(t, record.IsOverdue(time.Now()))

	// Without the vehicle back-link the mileage check cannot fire
	detached, err := NewMaintenanceRecord("oil change", "routine", 50000, 85,
		"garage", time.Now(), &nextMileage, nil)
	require.NoError(t, err)
	assert.False(t, detached.IsOverdue(time.Now()))
}

func TestMaintenanceRecord_IsDueSoon(t *testing.T) {
	policy := DefaultMaintenancePolicy()
	now := time.Now()

	inTwoWeeks := now.Add(14 * 24 * time.Hour)
	record, err := NewMaintenanceRecord("oil change", "routine", 50000, 85,
		"garage", now, nil, &inTwoWeeks)
	require.NoError(t, err)
	assert.True(t, record.IsDueSoon(now, policy))

	inTwoMonths := now.Add(60 * 24 * time.Hour)
	record, err = NewMaintenanceRecord("oil change", "routine", 50000, 85,
		"garage", now, nil, &inTwoMonths)
	require.NoError(t, err)
	assert.False(t, record.IsDueSoon(now, policy))
}

func TestMaintenanceRecord_IsDueSoonByMileage(t *testing.T) {
	policy := DefaultMaintenancePolicy()

	vehicle, _, _ := NewVehicle(validRegisterCommand())
	require.NoError(t, vehicle.UpdateMileage(54500))

	nextMileage := 55000.0
	record, err := NewMaintenanceRecord("oil change", "routine", 50000, 85,
		"garage", time.Now(), &nextMileage, nil)
	require.NoError(t, err)
	require.NoError(t, vehicle.AddMaintenanceRecord(record))

	assert.True(t, record.IsDueSoon(time.Now(), policy))
	assert.False(t, record.IsOverdue(time.Now()))
}
