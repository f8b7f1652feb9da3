package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/coboxlogistic/fleet-backend/internal/db"
	"github.com/coboxlogistic/fleet-backend/internal/events"
	"github.com/coboxlogistic/fleet-backend/internal/fleet"
)

// FuelRecordService drives the FuelRecord aggregate. Creating a record
// checks the referenced vehicle exists but does not lock or
// version-check it; the two aggregates are deliberately decoupled.
type FuelRecordService struct {
	records   db.FuelRecordRepository
	vehicles  db.VehicleRepository
	publisher events.Publisher
}

func NewFuelRecordService(records db.FuelRecordRepository, vehicles db.VehicleRepository, publisher events.Publisher) *FuelRecordService {
	return &FuelRecordService{records: records, vehicles: vehicles, publisher: publisher}
}

// Create records a fuel purchase against a vehicle.
func (s *FuelRecordService) Create(ctx context.Context, cmd fleet.CreateFuelRecordCommand) (*fleet.FuelRecord, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.vehicles.FindByID(ctx, cmd.VehicleID); err != nil {
		return nil, err
	}

	record, created, err := fleet.NewFuelRecord(cmd)
	if err != nil {
		return nil, err
	}
	if record, err = s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	s.publish(ctx, created)

	fields := log.Fields{
		"record_id":  record.ID,
		"vehicle_id": record.VehicleID,
		"quantity":   record.Quantity,
		"total_cost": record.TotalCost,
	}
	if record.Efficiency != nil {
		fields["efficiency"] = record.Efficiency.String()
	}
	log.WithFields(fields).Info("Fuel record created")
	return record, nil
}

// Update replaces the purchase details of an existing record.
func (s *FuelRecordService) Update(ctx context.Context, id string, fuelType fleet.FuelType,
	quantity, totalCost, currentMileage float64, station, location string) (*fleet.FuelRecord, error) {

	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.Update(fuelType, quantity, totalCost, currentMileage, station, location); err != nil {
		return nil, err
	}
	return s.records.Save(ctx, record)
}

// Delete removes a fuel record.
func (s *FuelRecordService) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}

// Get loads one fuel record.
func (s *FuelRecordService) Get(ctx context.Context, id string) (*fleet.FuelRecord, error) {
	return s.records.FindByID(ctx, id)
}

// ByVehicle lists a vehicle's fuel history, newest first.
func (s *FuelRecordService) ByVehicle(ctx context.Context, query fleet.RecordsByVehicleQuery) ([]*fleet.FuelRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.records.FindByVehicle(ctx, query.VehicleID)
}

// ByDateRange lists fuel records inside a closed date range.
func (s *FuelRecordService) ByDateRange(ctx context.Context, query fleet.RecordsByDateRangeQuery) ([]*fleet.FuelRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.records.FindByDateRange(ctx, query.Start, query.End)
}

// ByVehicleAndDateRange narrows a vehicle's history to a date range.
func (s *FuelRecordService) ByVehicleAndDateRange(ctx context.Context, vehicleID fleet.VehicleID, start, end time.Time) ([]*fleet.FuelRecord, error) {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return nil, &fleet.ValidationError{Field: "date range", Reason: "start must not be after end"}
	}
	return s.records.FindByVehicleAndDateRange(ctx, vehicleID, start, end)
}

// Statistics returns the storage-computed fuel aggregates for a vehicle.
func (s *FuelRecordService) Statistics(ctx context.Context, vehicleID fleet.VehicleID) (db.FuelStatistics, error) {
	if vehicleID.IsZero() {
		return db.FuelStatistics{}, &fleet.ValidationError{Field: "vehicle id", Reason: "must not be empty"}
	}
	return s.records.Statistics(ctx, vehicleID)
}

func (s *FuelRecordService) publish(ctx context.Context, evts ...fleet.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		log.WithError(err).Warn("Failed to publish domain events")
	}
}
