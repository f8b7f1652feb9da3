package db

import (
	"context"
	"fmt"
	"time"

	"github.com/coboxlogistic/fleet-backend/internal/fleet"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MileageStatistics are the storage-computed distance aggregates for
// one vehicle, split along the purpose classifications.
type MileageStatistics struct {
	VehicleID           fleet.VehicleID `json:"vehicle_id"`
	TotalDistance       float64         `json:"total_distance"`
	BusinessDistance    float64         `json:"business_distance"`
	PersonalDistance    float64         `json:"personal_distance"`
	MaintenanceDistance float64         `json:"maintenance_distance"`
	RecordCount         int64           `json:"record_count"`
}

// MileageRecordRepository is the persistence contract for
// MileageRecord aggregates.
type MileageRecordRepository interface {
	FindByID(ctx context.Context, id string) (*fleet.MileageRecord, error)
	FindByVehicle(ctx context.Context, vehicleID fleet.VehicleID) ([]*fleet.MileageRecord, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*fleet.MileageRecord, error)
	FindByPurpose(ctx context.Context, purpose fleet.MileagePurpose) ([]*fleet.MileageRecord, error)
	Save(ctx context.Context, record *fleet.MileageRecord) (*fleet.MileageRecord, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, vehicleID fleet.VehicleID) (MileageStatistics, error)
}

type mileageRecordDoc struct {
	ID            string    `bson:"_id"`
	VehicleID     string    `bson:"vehicle_id"`
	Date          time.Time `bson:"date"`
	StartOdometer float64   `bson:"start_odometer"`
	EndOdometer   float64   `bson:"end_odometer"`
	Distance      float64   `bson:"distance"`
	Purpose       string    `bson:"purpose"`
	DriverID      string    `bson:"driver_id,omitempty"`
	Route         string    `bson:"route,omitempty"`
	Notes         string    `bson:"notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
	Version       int64     `bson:"version"`
}

func toMileageRecordDoc(r *fleet.MileageRecord) mileageRecordDoc {
	return mileageRecordDoc{
		ID:            r.ID,
		VehicleID:     r.VehicleID.String(),
		Date:          r.Date,
		StartOdometer: r.StartOdometer,
		EndOdometer:   r.EndOdometer,
		Distance:      r.Distance,
		Purpose:       r.Purpose.String(),
		DriverID:      r.DriverID,
		Route:         r.Route,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
}

func fromMileageRecordDoc(doc mileageRecordDoc) *fleet.MileageRecord {
	return &fleet.MileageRecord{
		Audit:         fleet.Audit{CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt, Version: doc.Version},
		ID:            doc.ID,
		VehicleID:     fleet.VehicleID(doc.VehicleID),
		Date:          doc.Date,
		StartOdometer: doc.StartOdometer,
		EndOdometer:   doc.EndOdometer,
		Distance:      doc.Distance,
		Purpose:       fleet.MileagePurpose(doc.Purpose),
		DriverID:      doc.DriverID,
		Route:         doc.Route,
		Notes:         doc.Notes,
	}
}

// MongoMileageRecordRepository implements MileageRecordRepository on a
// MongoDB collection.
type MongoMileageRecordRepository struct {
	Collection *mongo.Collection
}

func NewMongoMileageRecordRepository(database *mongo.Database) *MongoMileageRecordRepository {
	return &MongoMileageRecordRepository{Collection: database.Collection("mileage_records")}
}

func (r *MongoMileageRecordRepository) FindByID(ctx context.Context, id string) (*fleet.MileageRecord, error) {
	var doc mileageRecordDoc
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &fleet.NotFoundError{Kind: "mileage record", ID: id}
		}
		return nil, err
	}
	return fromMileageRecordDoc(doc), nil
}

func (r *MongoMileageRecordRepository) FindByVehicle(ctx context.Context, vehicleID fleet.VehicleID) ([]*fleet.MileageRecord, error) {
	return r.findMany(ctx, bson.M{"vehicle_id": vehicleID.String()})
}

func (r *MongoMileageRecordRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*fleet.MileageRecord, error) {
	return r.findMany(ctx, bson.M{"date": bson.M{"$gte": start, "$lte": end}})
}

func (r *MongoMileageRecordRepository) FindByPurpose(ctx context.Context, purpose fleet.MileagePurpose) ([]*fleet.MileageRecord, error) {
	return r.findMany(ctx, bson.M{"purpose": purpose.String()})
}

func (r *MongoMileageRecordRepository) findMany(ctx context.Context, filter bson.M) ([]*fleet.MileageRecord, error) {
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mileageRecordDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	records := make([]*fleet.MileageRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromMileageRecordDoc(doc))
	}
	return records, nil
}

func (r *MongoMileageRecordRepository) Save(ctx context.Context, record *fleet.MileageRecord) (*fleet.MileageRecord, error) {
	doc := toMileageRecordDoc(record)

	if record.Version == 0 {
		doc.Version = 1
		if _, err := r.Collection.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert mileage record: %w", err)
		}
		record.Version = 1
		return record, nil
	}

	doc.Version = record.Version + 1
	result, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": doc.ID, "version": record.Version}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace mileage record: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrVersionConflict
	}
	record.Version = doc.Version
	return record, nil
}

func (r *MongoMileageRecordRepository) Delete(ctx context.Context, id string) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return &fleet.NotFoundError{Kind: "mileage record", ID: id}
	}
	return nil
}

// Statistics runs the distance aggregation pipeline for one vehicle.
func (r *MongoMileageRecordRepository) Statistics(ctx context.Context, vehicleID fleet.VehicleID) (MileageStatistics, error) {
	personal := string(fleet.PurposePersonal)
	maintenance := string(fleet.PurposeMaintenance)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"vehicle_id": vehicleID.String()}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_distance": bson.M{"$sum": "$distance"},
			"business_distance": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$ne": bson.A{"$purpose", personal}}, "$distance", 0,
			}}},
			"personal_distance": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$purpose", personal}}, "$distance", 0,
			}}},
			"maintenance_distance": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$purpose", maintenance}}, "$distance", 0,
			}}},
			"record_count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return MileageStatistics{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalDistance       float64 `bson:"total_distance"`
		BusinessDistance    float64 `bson:"business_distance"`
		PersonalDistance    float64 `bson:"personal_distance"`
		MaintenanceDistance float64 `bson:"maintenance_distance"`
		RecordCount         int64   `bson:"record_count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return MileageStatistics{}, err
	}

	stats := MileageStatistics{VehicleID: vehicleID}
	if len(rows) > 0 {
		stats.TotalDistance = rows[0].TotalDistance
		stats.BusinessDistance = rows[0].BusinessDistance
		stats.PersonalDistance = rows[0].PersonalDistance
		stats.MaintenanceDistance = rows[0].MaintenanceDistance
		stats.RecordCount = rows[0].RecordCount
	}
	return stats, nil
}
