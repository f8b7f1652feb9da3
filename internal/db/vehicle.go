package db

import (
	"context"
	"fmt"
	"time"

	"github.com/coboxlogistic/fleet-backend/internal/fleet"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// VehicleRepository is the persistence contract for the Vehicle
// aggregate. Save applies optimistic concurrency: a write against a
// stale version fails with ErrVersionConflict.
type VehicleRepository interface {
	FindByID(ctx context.Context, id fleet.VehicleID) (*fleet.Vehicle, error)
	FindByPlate(ctx context.Context, plate fleet.LicensePlate) (*fleet.Vehicle, error)
	FindAll(ctx context.Context) ([]*fleet.Vehicle, error)
	FindByStatus(ctx context.Context, status fleet.VehicleStatus) ([]*fleet.Vehicle, error)
	Save(ctx context.Context, vehicle *fleet.Vehicle) (*fleet.Vehicle, error)
	Delete(ctx context.Context, id fleet.VehicleID) error
}

// vehicleDoc is the stored shape of a vehicle. Maintenance records are
// embedded so they live and die with the owning vehicle.
type vehicleDoc struct {
	ID             string           `bson:"_id"`
	LicensePlate   string           `bson:"license_plate"`
	Brand          string           `bson:"brand"`
	Model          string           `bson:"model"`
	Year           int              `bson:"year"`
	FuelType       string           `bson:"fuel_type"`
	EngineCapacity *float64         `bson:"engine_capacity,omitempty"`
	CurrentMileage float64          `bson:"current_mileage"`
	Status         string           `bson:"status"`
	Color          string           `bson:"color,omitempty"`
	VIN            string           `bson:"vin,omitempty"`
	Description    string           `bson:"description,omitempty"`
	Maintenance    []maintenanceDoc `bson:"maintenance_records"`
	CreatedAt      time.Time        `bson:"created_at"`
	UpdatedAt      time.Time        `bson:"updated_at"`
	Version        int64            `bson:"version"`
}

type maintenanceDoc struct {
	ID                     string     `bson:"id"`
	MaintenanceType        string     `bson:"maintenance_type"`
	Description            string     `bson:"description,omitempty"`
	MileageAtMaintenance   float64    `bson:"mileage_at_maintenance"`
	Cost                   *float64   `bson:"cost,omitempty"`
	PerformedBy            string     `bson:"performed_by,omitempty"`
	MaintenanceDate        time.Time  `bson:"maintenance_date"`
	NextMaintenanceMileage *float64   `bson:"next_maintenance_mileage,omitempty"`
	NextMaintenanceDate    *time.Time `bson:"next_maintenance_date,omitempty"`
	IsScheduled            bool       `bson:"is_scheduled"`
}

func toVehicleDoc(v *fleet.Vehicle) vehicleDoc {
	records := v.MaintenanceRecords()
	maintenance := make([]maintenanceDoc, 0, len(records))
	for _, m := range records {
		maintenance = append(maintenance, maintenanceDoc{
			ID:                     m.ID,
			MaintenanceType:        m.MaintenanceType,
			Description:            m.Description,
			MileageAtMaintenance:   m.MileageAtMaintenance,
			Cost:                   m.CostRef(),
			PerformedBy:            m.PerformedBy,
			MaintenanceDate:        m.MaintenanceDate,
			NextMaintenanceMileage: m.NextMaintenanceMileage,
			NextMaintenanceDate:    m.NextMaintenanceDate,
			IsScheduled:            m.Scheduled,
		})
	}
	return vehicleDoc{
		ID:             v.ID.String(),
		LicensePlate:   v.LicensePlate.String(),
		Brand:          v.Brand,
		Model:          v.Model,
		Year:           v.Year,
		FuelType:       v.FuelType.String(),
		EngineCapacity: v.EngineCapacity,
		CurrentMileage: v.CurrentMileage,
		Status:         v.Status.String(),
		Color:          v.Color,
		VIN:            v.VIN,
		Description:    v.Description,
		Maintenance:    maintenance,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
		Version:        v.Version,
	}
}

func fromVehicleDoc(doc vehicleDoc) *fleet.Vehicle {
	v := &fleet.Vehicle{
		Audit:          fleet.Audit{CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt, Version: doc.Version},
		ID:             fleet.VehicleID(doc.ID),
		LicensePlate:   fleet.LicensePlate(doc.LicensePlate),
		Brand:          doc.Brand,
		Model:          doc.Model,
		Year:           doc.Year,
		FuelType:       fleet.FuelType(doc.FuelType),
		EngineCapacity: doc.EngineCapacity,
		CurrentMileage: doc.CurrentMileage,
		Status:         fleet.VehicleStatus(doc.Status),
		Color:          doc.Color,
		VIN:            doc.VIN,
		Description:    doc.Description,
	}
	records := make([]*fleet.MaintenanceRecord, 0, len(doc.Maintenance))
	for _, m := range doc.Maintenance {
		records = append(records, fleet.RehydrateMaintenanceRecord(
			m.ID, m.MaintenanceType, m.Description, m.MileageAtMaintenance,
			m.Cost, m.PerformedBy, m.MaintenanceDate,
			m.NextMaintenanceMileage, m.NextMaintenanceDate, m.IsScheduled,
		))
	}
	v.RestoreMaintenanceHistory(records)
	return v
}

// MongoVehicleRepository implements VehicleRepository on a MongoDB
// collection.
type MongoVehicleRepository struct {
	Collection *mongo.Collection
}

func NewMongoVehicleRepository(database *mongo.Database) *MongoVehicleRepository {
	return &MongoVehicleRepository{Collection: database.Collection("vehicles")}
}

func (r *MongoVehicleRepository) FindByID(ctx context.Context, id fleet.VehicleID) (*fleet.Vehicle, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, id.String())
}

func (r *MongoVehicleRepository) FindByPlate(ctx context.Context, plate fleet.LicensePlate) (*fleet.Vehicle, error) {
	return r.findOne(ctx, bson.M{"license_plate": plate.String()}, plate.String())
}

func (r *MongoVehicleRepository) findOne(ctx context.Context, filter bson.M, id string) (*fleet.Vehicle, error) {
	var doc vehicleDoc
	err := r.Collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &fleet.NotFoundError{Kind: "vehicle", ID: id}
		}
		return nil, err
	}
	return fromVehicleDoc(doc), nil
}

func (r *MongoVehicleRepository) FindAll(ctx context.Context) ([]*fleet.Vehicle, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *MongoVehicleRepository) FindByStatus(ctx context.Context, status fleet.VehicleStatus) ([]*fleet.Vehicle, error) {
	return r.findMany(ctx, bson.M{"status": status.String()})
}

func (r *MongoVehicleRepository) findMany(ctx context.Context, filter bson.M) ([]*fleet.Vehicle, error) {
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []vehicleDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	vehicles := make([]*fleet.Vehicle, 0, len(docs))
	for _, doc := range docs {
		vehicles = append(vehicles, fromVehicleDoc(doc))
	}
	return vehicles, nil
}

// Save inserts a new vehicle or replaces an existing one, guarded by
// the stored version. The returned aggregate carries the new version.
func (r *MongoVehicleRepository) Save(ctx context.Context, vehicle *fleet.Vehicle) (*fleet.Vehicle, error) {
	doc := toVehicleDoc(vehicle)

	if vehicle.Version == 0 {
		doc.Version = 1
		if _, err := r.Collection.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert vehicle: %w", err)
		}
		vehicle.Version = 1
		return vehicle, nil
	}

	doc.Version = vehicle.Version + 1
	result, err := r.Collection.ReplaceOne(ctx,
		bson.M{"_id": doc.ID, "version": vehicle.Version}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrVersionConflict
	}
	vehicle.Version = doc.Version
	return vehicle, nil
}

func (r *MongoVehicleRepository) Delete(ctx context.Context, id fleet.VehicleID) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return &fleet.NotFoundError{Kind: "vehicle", ID: id.String()}
	}
	return nil
}
