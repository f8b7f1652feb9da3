package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterCommand() RegisterVehicleCommand {
	return RegisterVehicleCommand{
		LicensePlate:   "ABC123",
		Brand:          "Ford",
		Model:          "Transit",
		Year:           2022,
		FuelType:       FuelDiesel,
		CurrentMileage: 12000,
	}
}

func TestNewVehicle(t *testing.T) {
	vehicle, event, err := NewVehicle(validRegisterCommand())
	require.NoError(t, err)

	assert.False(t, vehicle.ID.IsZero())
	assert.Equal(t, StatusPendingRegistration, vehicle.Status)
	assert.Equal(t, int64(0), vehicle.Version)
	assert.False(t, vehicle.IsOperational())

	assert.Equal(t, vehicle.ID, event.VehicleID)
	assert.Equal(t, vehicle.LicensePlate, event.LicensePlate)
	assert.False(t, event.At.IsZero())
}

func TestNewVehicle_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterVehicleCommand)
	}{
		{"empty plate", func(c *RegisterVehicleCommand) { c.LicensePlate = "" }},
		{"empty brand", func(c *RegisterVehicleCommand) { c.Brand = "  " }},
		{"empty model", func(c *RegisterVehicleCommand) { c.Model = "" }},
		{"year too old", func(c *RegisterVehicleCommand) { c.Year = 1899 }},
		{"year too new", func(c *RegisterVehicleCommand) { c.Year = time.Now().Year() + 2 }},
		{"unknown fuel type", func(c *RegisterVehicleCommand) { c.FuelType = "PLUTONIUM" }},
		{"negative mileage", func(c *RegisterVehicleCommand) { c.CurrentMileage = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validRegisterCommand()
			tt.mutate(&cmd)

			_, _, err := NewVehicle(cmd)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestNewVehicle_YearBounds(t *testing.T) {
	cmd := validRegisterCommand()
	cmd.Year = time.Now().Year() + 1
	_, _, err := NewVehicle(cmd)
	assert.NoError(t, err)

	cmd.Year = 1900
	_, _, err = NewVehicle(cmd)
	assert.NoError(t, err)
}

func TestCanTransition(t *testing.T) {
	all := []VehicleStatus{
		StatusPendingRegistration, StatusActive, StatusMaintenance,
		StatusOutOfService, StatusRetired,
	}
	allowed := map[VehicleStatus]map[VehicleStatus]bool{
		StatusPendingRegistration: {StatusActive: true, StatusOutOfService: true, StatusRetired: true},
		StatusActive:              {StatusMaintenance: true, StatusOutOfService: true, StatusRetired: true},
		StatusMaintenance:         {StatusActive: true, StatusOutOfService: true, StatusRetired: true},
		StatusOutOfService:        {StatusActive: true, StatusRetired: true},
		StatusRetired:             {},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestVehicle_Activate(t *testing.T) {
	vehicle, _, _ := NewVehicle(validRegisterCommand())

	event, err := vehicle.Activate()
	require.NoError(t, err)
	assert.Equal(t, StatusActive, vehicle.Status)
	assert.True(t, vehicle.IsOperational())
	assert.Equal(t, StatusPendingRegistration, event.Previous)
	assert.Equal(t, StatusActive, event.Current)

	// Activating twice is a transition error
	_, err = vehicle.Activate()
	var transitionErr *StateTransitionError
	assert.ErrorAs(t, err, &transitionErr)
}

func TestVehicle_MaintenanceCycle(t *testing.T) {
	vehicle, _, _ := NewVehicle(validRegisterCommand())
	_, err := vehicle.PutInMaintenance()
	assert.Error(t, err, "pending vehicle cannot enter maintenance")

	_, err = vehicle.Activate()
	require.NoError(t, err)

	event, err := vehicle.PutInMaintenance()
	require.NoError(t, err)
	assert.Equal(t, StatusMaintenance, vehicle.Status)
	assert.Equal(t, StatusActive, event.Previous)

	_, err = vehicle.Reactivate()
	require.NoError(t, err)
	assert.Equal(t, StatusActive, vehicle.Status)
}

func TestVehicle_TakeOutOfService(t *testing.T) {
	vehicle, _, _ := NewVehicle(validRegisterCommand())

	_, err := vehicle.TakeOutOfService()
	require.NoError(t, err)
	assert.Equal(t, StatusOutOfService, vehicle.Status)

	_, err = vehicle.Reactivate()
	require.NoError(t, err)
	assert.Equal(t, StatusActive, vehicle.Status)
}

func TestVehicle_RetireIsTerminal(t *testing.T) {
	vehicle, _, _ := NewVehicle(validRegisterCommand())
	_, err := vehicle.Retire()
	require.NoError(t, err)
	assert.Equal(t, StatusRetired, vehicle.Status)

	var transitionErr *StateTransitionError

	_, err = vehicle.Activate()
	assert.ErrorAs(t, err, &transitionErr)
	_, err = vehicle.Reactivate()
	assert.ErrorAs(t, err, &transitionErr)
	_, err = vehicle.PutInMaintenance()
	assert.ErrorAs(t, err, &transitionErr)
	_, err = vehicle.TakeOutOfService()
	assert.ErrorAs(t, err, &transitionErr)
	_, err = vehicle.Retire()
	assert.ErrorAs(t, err, &transitionErr)
}

func TestVehicle_UpdateMileage(t *testing.T) {
	vehicle, _, _ := NewVehicle(validRegisterCommand())

	require.NoError(t, vehicle.UpdateMileage(12500))
	assert.Equal(t, 12500.0, vehicle.CurrentMileage)

	// Same reading is fine, going backwards is not
	assert.NoError(t, vehicle.UpdateMileage(12500))

	err := vehicle.UpdateMileage(12499)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 12500.0, vehicle.CurrentMileage)

	assert.Error(t, vehicle.UpdateMileage(-1))
}

func TestVehicle_AddMaintenanceRecord(t *testing.T) {
	vehicle, _, _ := NewVehicle(validRegisterCommand())

	record, err := NewMaintenanceRecord("oil change", "routine", 12000, 80,
		"garage", time.Now(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, vehicle.AddMaintenanceRecord(record))
	assert.Same(t, vehicle, record.Vehicle())

	records := vehicle.MaintenanceRecords()
	require.Len(t, records, 1)

	// The returned slice is a copy
	records[0] = nil
	assert.NotNil(t, vehicle.MaintenanceRecords()[0])

	assert.Error(t, vehicle.AddMaintenanceRecord(nil))
}

func TestVehicle_NeedsMaintenance(t *testing.T) {
	policy := DefaultMaintenancePolicy()

	vehicle, _, _ := NewVehicle(validRegisterCommand())
	assert.False(t, vehicle.NeedsMaintenance(policy))

	require.NoError(t, vehicle.UpdateMileage(100001))
	assert.True(t, vehicle.NeedsMaintenance(policy))

	workshop, _, _ := NewVehicle(validRegisterCommand())
	workshop.Activate()
	workshop.PutInMaintenance()
	assert.True(t, workshop.NeedsMaintenance(policy))
}

func TestVehicle_Lifecycle(t *testing.T) {
	vehicle, _, err := NewVehicle(validRegisterCommand())
	require.NoError(t, err)

	_, err = vehicle.Activate()
	require.NoError(t, err)
	require.NoError(t, vehicle.UpdateMileage(15000))

	_, err = vehicle.PutInMaintenance()
	require.NoError(t, err)

	record, err := NewMaintenanceRecord("brake pads", "front axle", 15000, 240,
		"garage", time.Now(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, vehicle.AddMaintenanceRecord(record))

	_, err = vehicle.Reactivate()
	require.NoError(t, err)

	_, err = vehicle.TakeOutOfService()
	require.NoError(t, err)

	_, err = vehicle.Retire()
	require.NoError(t, err)
	assert.Equal(t, StatusRetired, vehicle.Status)

	_, err = vehicle.Activate()
	assert.Error(t, err)
}
