package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/coboxlogistic/fleet-backend/internal/db"
	"github.com/coboxlogistic/fleet-backend/internal/events"
	"github.com/coboxlogistic/fleet-backend/internal/fleet"
)

// MileageRecordService drives the MileageRecord aggregate.
type MileageRecordService struct {
	records   db.MileageRecordRepository
	vehicles  db.VehicleRepository
	publisher events.Publisher
}

func NewMileageRecordService(records db.MileageRecordRepository, vehicles db.VehicleRepository, publisher events.Publisher) *MileageRecordService {
	return &MileageRecordService{records: records, vehicles: vehicles, publisher: publisher}
}

// Create records a trip against a vehicle.
func (s *MileageRecordService) Create(ctx context.Context, cmd fleet.CreateMileageRecordCommand) (*fleet.MileageRecord, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.vehicles.FindByID(ctx, cmd.VehicleID); err != nil {
		return nil, err
	}

	record, created, err := fleet.NewMileageRecord(cmd)
	if err != nil {
		return nil, err
	}
	if record, err = s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	s.publish(ctx, created)

	log.WithFields(log.Fields{
		"record_id":  record.ID,
		"vehicle_id": record.VehicleID,
		"distance":   record.Distance,
		"purpose":    record.Purpose,
	}).Info("Mileage record created")
	return record, nil
}

// Update replaces the trip details of an existing record.
func (s *MileageRecordService) Update(ctx context.Context, id string, date time.Time,
	startOdometer, endOdometer float64, purpose fleet.MileagePurpose,
	driverID, route, notes string) (*fleet.MileageRecord, error) {

	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.Update(date, startOdometer, endOdometer, purpose, driverID, route, notes); err != nil {
		return nil, err
	}
	return s.records.Save(ctx, record)
}

// Delete removes a mileage record.
func (s *MileageRecordService) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}

// Get loads one mileage record.
func (s *MileageRecordService) Get(ctx context.Context, id string) (*fleet.MileageRecord, error) {
	return s.records.FindByID(ctx, id)
}

// ByVehicle lists a vehicle's trips, newest first.
func (s *MileageRecordService) ByVehicle(ctx context.Context, query fleet.RecordsByVehicleQuery) ([]*fleet.MileageRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.records.FindByVehicle(ctx, query.VehicleID)
}

// ByDateRange lists trips inside a closed date range.
func (s *MileageRecordService) ByDateRange(ctx context.Context, query fleet.RecordsByDateRangeQuery) ([]*fleet.MileageRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.records.FindByDateRange(ctx, query.Start, query.End)
}

// ByPurpose lists trips with a given purpose.
func (s *MileageRecordService) ByPurpose(ctx context.Context, purpose fleet.MileagePurpose) ([]*fleet.MileageRecord, error) {
	if _, err := fleet.ParseMileagePurpose(string(purpose)); err != nil {
		return nil, err
	}
	return s.records.FindByPurpose(ctx, purpose)
}

// Statistics returns the storage-computed distance aggregates.
func (s *MileageRecordService) Statistics(ctx context.Context, vehicleID fleet.VehicleID) (db.MileageStatistics, error) {
	if vehicleID.IsZero() {
		return db.MileageStatistics{}, &fleet.ValidationError{Field: "vehicle id", Reason: "must not be empty"}
	}
	return s.records.Statistics(ctx, vehicleID)
}

func (s *MileageRecordService) publish(ctx context.Context, evts ...fleet.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		log.WithError(err).Warn("Failed to publish domain events")
	}
}
