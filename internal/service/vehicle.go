package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/coboxlogistic/fleet-backend/internal/db"
	"github.com/coboxlogistic/fleet-backend/internal/events"
	"github.com/coboxlogistic/fleet-backend/internal/fleet"
)

// VehicleService drives the Vehicle aggregate: registration, lifecycle
// transitions, the odometer, and the owned maintenance history.
type VehicleService struct {
	vehicles  db.VehicleRepository
	publisher events.Publisher
	policy    fleet.MaintenancePolicy
}

func NewVehicleService(vehicles db.VehicleRepository, publisher events.Publisher, policy fleet.MaintenancePolicy) *VehicleService {
	return &VehicleService{vehicles: vehicles, publisher: publisher, policy: policy}
}

// Register adds a vehicle to the fleet. The plate must be unused.
func (s *VehicleService) Register(ctx context.Context, cmd fleet.RegisterVehicleCommand) (*fleet.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.vehicles.FindByPlate(ctx, cmd.LicensePlate); err == nil {
		return nil, &fleet.ValidationError{Field: "license plate", Reason: "already registered"}
	} else if notFound := new(fleet.NotFoundError); !errors.As(err, &notFound) {
		return nil, fmt.Errorf("check plate uniqueness: %w", err)
	}

	vehicle, registered, err := fleet.NewVehicle(cmd)
	if err != nil {
		return nil, err
	}
	if vehicle, err = s.vehicles.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	s.publish(ctx, registered)

	log.WithFields(log.Fields{
		"vehicle_id": vehicle.ID,
		"plate":      vehicle.LicensePlate,
		"brand":      vehicle.Brand,
		"model":      vehicle.Model,
	}).Info("Vehicle registered")
	return vehicle, nil
}

// UpdateStatus routes the requested status to the matching lifecycle
// mutator, so every transition runs through the aggregate's guards.
func (s *VehicleService) UpdateStatus(ctx context.Context, cmd fleet.UpdateVehicleStatusCommand) (*fleet.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.FindByID(ctx, cmd.VehicleID)
	if err != nil {
		return nil, err
	}

	var changed fleet.StatusChanged
	switch cmd.NewStatus {
	case fleet.StatusActive:
		if vehicle.Status == fleet.StatusPendingRegistration {
			changed, err = vehicle.Activate()
		} else {
			changed, err = vehicle.Reactivate()
		}
	case fleet.StatusMaintenance:
		changed, err = vehicle.PutInMaintenance()
	case fleet.StatusOutOfService:
		changed, err = vehicle.TakeOutOfService()
	case fleet.StatusRetired:
		changed, err = vehicle.Retire()
	default:
		return nil, &fleet.ValidationError{Field: "vehicle status", Reason: "no transition targets " + string(cmd.NewStatus)}
	}
	if err != nil {
		return nil, err
	}

	if vehicle, err = s.vehicles.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	s.publish(ctx, changed)

	log.WithFields(log.Fields{
		"vehicle_id": vehicle.ID,
		"previous":   changed.Previous,
		"current":    changed.Current,
	}).Info("Vehicle status changed")
	return vehicle, nil
}

// UpdateMileage overwrites the odometer; the aggregate rejects any
// reading below the current one.
func (s *VehicleService) UpdateMileage(ctx context.Context, id fleet.VehicleID, newMileage float64) (*fleet.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := vehicle.UpdateMileage(newMileage); err != nil {
		return nil, err
	}
	return s.vehicles.Save(ctx, vehicle)
}

// RecordMaintenance attaches completed maintenance work to a vehicle.
func (s *VehicleService) RecordMaintenance(ctx context.Context, vehicleID fleet.VehicleID,
	maintenanceType, description string, mileage, cost float64, performedBy string,
	date time.Time, nextMileage *float64, nextDate *time.Time) (*fleet.MaintenanceRecord, error) {

	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	record, err := fleet.NewMaintenanceRecord(maintenanceType, description, mileage, cost,
		performedBy, date, nextMileage, nextDate)
	if err != nil {
		return nil, err
	}
	if err := vehicle.AddMaintenanceRecord(record); err != nil {
		return nil, err
	}
	if _, err := s.vehicles.Save(ctx, vehicle); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"vehicle_id": vehicleID,
		"type":       maintenanceType,
		"cost":       cost,
	}).Info("Maintenance recorded")
	return record, nil
}

// ScheduleMaintenance books future maintenance for a vehicle.
func (s *VehicleService) ScheduleMaintenance(ctx context.Context, cmd fleet.ScheduleMaintenanceCommand) (*fleet.MaintenanceRecord, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	vehicle, err := s.vehicles.FindByID(ctx, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	record, err := fleet.NewScheduledMaintenance(cmd.MaintenanceType, cmd.Description,
		cmd.ScheduledDate, cmd.ScheduledMileage)
	if err != nil {
		return nil, err
	}
	if err := vehicle.AddMaintenanceRecord(record); err != nil {
		return nil, err
	}
	if _, err := s.vehicles.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return record, nil
}

// CompleteMaintenance closes out a scheduled record with the actual
// work details.
func (s *VehicleService) CompleteMaintenance(ctx context.Context, vehicleID fleet.VehicleID,
	recordID string, actualMileage, actualCost float64, performedBy string) (*fleet.MaintenanceRecord, error) {

	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	var target *fleet.MaintenanceRecord
	for _, record := range vehicle.MaintenanceRecords() {
		if record.ID == recordID {
			target = record
			break
		}
	}
	if target == nil {
		return nil, &fleet.NotFoundError{Kind: "maintenance record", ID: recordID}
	}
	if err := target.MarkAsCompleted(actualMileage, actualCost, performedBy); err != nil {
		return nil, err
	}
	if _, err := s.vehicles.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return target, nil
}

// OverdueMaintenance lists the vehicle's maintenance records that are
// past their follow-up date or mileage.
func (s *VehicleService) OverdueMaintenance(ctx context.Context, vehicleID fleet.VehicleID) ([]*fleet.MaintenanceRecord, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var overdue []*fleet.MaintenanceRecord
	for _, record := range vehicle.MaintenanceRecords() {
		if record.IsOverdue(now) {
			overdue = append(overdue, record)
		}
	}
	return overdue, nil
}

// NeedsMaintenance applies the configured maintenance policy.
func (s *VehicleService) NeedsMaintenance(ctx context.Context, vehicleID fleet.VehicleID) (bool, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	return vehicle.NeedsMaintenance(s.policy), nil
}

// Get loads one vehicle.
func (s *VehicleService) Get(ctx context.Context, query fleet.VehicleByIDQuery) (*fleet.Vehicle, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.vehicles.FindByID(ctx, query.VehicleID)
}

// List returns the whole fleet.
func (s *VehicleService) List(ctx context.Context) ([]*fleet.Vehicle, error) {
	return s.vehicles.FindAll(ctx)
}

// ListByStatus returns vehicles in one lifecycle state.
func (s *VehicleService) ListByStatus(ctx context.Context, query fleet.VehiclesByStatusQuery) ([]*fleet.Vehicle, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.vehicles.FindByStatus(ctx, query.Status)
}

// Delete removes the vehicle and, through the embedded documents, its
// maintenance history.
func (s *VehicleService) Delete(ctx context.Context, id fleet.VehicleID) error {
	return s.vehicles.Delete(ctx, id)
}

func (s *VehicleService) publish(ctx context.Context, evts ...fleet.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		log.WithError(err).Warn("Failed to publish domain events")
	}
}
