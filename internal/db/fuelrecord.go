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

// FuelStatistics are the storage-computed aggregates for a vehicle's
// fuel history. Averages only cover records that carry an efficiency.
type FuelStatistics struct {
	VehicleID         fleet.VehicleID `json:"vehicle_id"`
	TotalQuantity     float64         `json:"total_quantity"`
	TotalCost         float64         `json:"total_cost"`
	AverageEfficiency float64         `json:"average_efficiency"`
	TotalDistance     float64         `json:"total_distance"`
	RecordCount       int64           `json:"record_count"`
}

// FuelRecordRepository is the persistence contract for FuelRecord
// aggregates.
type FuelRecordRepository interface {
	FindByID(ctx context.Context, id string) (*fleet.FuelRecord, error)
	FindByVehicle(ctx context.Context, vehicleID fleet.VehicleID) ([]*fleet.FuelRecord, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*fleet.FuelRecord, error)
	FindByVehicleAndDateRange(ctx context.Context, vehicleID fleet.VehicleID, start, end time.Time) ([]*fleet.FuelRecord, error)
	Save(ctx context.Context, record *fleet.FuelRecord) (*fleet.FuelRecord, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, vehicleID fleet.VehicleID) (FuelStatistics, error)
}

type fuelRecordDoc struct {
	ID              string    `bson:"_id"`
	VehicleID       string    `bson:"vehicle_id"`
	VehiclePlate    string    `bson:"vehicle_plate"`
	Date            time.Time `bson:"date"`
	FuelType        string    `bson:"fuel_type"`
	Quantity        float64   `bson:"quantity"`
	TotalCost       float64   `bson:"total_cost"`
	CurrentMileage  float64   `bson:"current_mileage"`
	Station         string    `bson:"station,omitempty"`
	Location        string    `bson:"location,omitempty"`
	PreviousMileage *float64  `bson:"previous_mileage,omitempty"`
	EfficiencyValue *float64  `bson:"efficiency_value,omitempty"`
	EfficiencyUnit  string    `bson:"efficiency_unit,omitempty"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
	Version         int64     `bson:"version"`
}

func toFuelRecordDoc(r *fleet.FuelRecord) fuelRecordDoc {
	doc := fuelRecordDoc{
		ID:              r.ID,
		VehicleID:       r.VehicleID.String(),
		VehiclePlate:    r.VehiclePlate,
		Date:            r.Date,
		FuelType:        r.FuelType.String(),
		Quantity:        r.Quantity,
		TotalCost:       r.TotalCost,
		CurrentMileage:  r.CurrentMileage,
		Station:         r.Station,
		Location:        r.Location,
		PreviousMileage: r.PreviousMileage,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
	if r.Efficiency != nil {
		value := r.Efficiency.Value
		doc.EfficiencyValue = &value
		doc.EfficiencyUnit = string(r.Efficiency.Unit)
	}
	return doc
}

func fromFuelRecordDoc(doc fuelRecordDoc) *fleet.FuelRecord {
	r := &fleet.FuelRecord{
		Audit:           fleet.Audit{CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt, Version: doc.Version},
		ID:              doc.ID,
		VehicleID:       fleet.VehicleID(doc.VehicleID),
		VehiclePlate:    doc.VehiclePlate,
		Date:            doc.Date,
		FuelType:        fleet.FuelType(doc.FuelType),
		Quantity:        doc.Quantity,
		TotalCost:       doc.TotalCost,
		CurrentMileage:  doc.CurrentMileage,
		Station:         doc.Station,
		Location:        doc.Location,
		PreviousMileage: doc.PreviousMileage,
	}
	if doc.EfficiencyValue != nil {
		r.Efficiency = &fleet.FuelEfficiency{
			Value: *doc.EfficiencyValue,
			Unit:  fleet.EfficiencyUnit(doc.EfficiencyUnit),
		}
	}
	return r
}

// MongoFuelRecordRepository implements FuelRecordRepository on a
// MongoDB collection.
type MongoFuelRecordRepository struct {
	Collection *mongo.Collection
}

func NewMongoFuelRecordRepository(database *mongo.Database) *MongoFuelRecordRepository {
	return &MongoFuelRecordRepository{Collection: database.Collection("fuel_records")}
}

func (r *MongoFuelRecordRepository) FindByID(ctx context.Context, id string) (*fleet.FuelRecord, error) {
	var doc fuelRecordDoc
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &fleet.NotFoundError{Kind: "fuel record", ID: id}
		}
		return nil, err
	}
	return fromFuelRecordDoc(doc), nil
}

func (r *MongoFuelRecordRepository) FindByVehicle(ctx context.Context, vehicleID fleet.VehicleID) ([]*fleet.FuelRecord, error) {
	return r.findMany(ctx, bson.M{"vehicle_id": vehicleID.String()})
}

func (r *MongoFuelRecordRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*fleet.FuelRecord, error) {
	return r.findMany(ctx, bson.M{"date": bson.M{"$gte": start, "$lte": end}})
}

func (r *MongoFuelRecordRepository) FindByVehicleAndDateRange(ctx context.Context, vehicleID fleet.VehicleID, start, end time.Time) ([]*fleet.FuelRecord, error) {
	return r.findMany(ctx, bson.M{
		"vehicle_id": vehicleID.String(),
		"date":       bson.M{"$gte": start, "$lte": end},
	})
}

func (r *MongoFuelRecordRepository) findMany(ctx context.Context, filter bson.M) ([]*fleet.FuelRecord, error) {
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []fuelRecordDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	records := make([]*fleet.FuelRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromFuelRecordDoc(doc))
	}
	return records, nil
}

func (r *MongoFuelRecordRepository) Save(ctx context.Context, record *fleet.FuelRecord) (*fleet.FuelRecord, error) {
	doc := toFuelRecordDoc(record)

	if record.Version == 0 {
		doc.Version = 1
		if _, err := r.Collection.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert fuel record: %w", err)
		}
		record.Version = 1
		return record, nil
	}

	doc.Version = record.Version + 1
	result, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": doc.ID, "version": record.Version}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace fuel record: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrVersionConflict
	}
	record.Version = doc.Version
	return record, nil
}

func (r *MongoFuelRecordRepository) Delete(ctx context.Context, id string) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return &fleet.NotFoundError{Kind: "fuel record", ID: id}
	}
	return nil
}

// Statistics runs the fuel aggregation pipeline for one vehicle.
func (r *MongoFuelRecordRepository) Statistics(ctx context.Context, vehicleID fleet.VehicleID) (FuelStatistics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"vehicle_id": vehicleID.String()}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_quantity": bson.M{"$sum": "$quantity"},
			"total_cost":     bson.M{"$sum": "$total_cost"},
			"avg_efficiency": bson.M{"$avg": "$efficiency_value"},
			"total_distance": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$current_mileage", bson.M{"$ifNull": bson.A{"$previous_mileage", "$current_mileage"}}}},
				bson.M{"$subtract": bson.A{"$current_mileage", "$previous_mileage"}},
				0,
			}}},
			"record_count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return FuelStatistics{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalQuantity float64  `bson:"total_quantity"`
		TotalCost     float64  `bson:"total_cost"`
		AvgEfficiency *float64 `bson:"avg_efficiency"`
		TotalDistance float64  `bson:"total_distance"`
		RecordCount   int64    `bson:"record_count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return FuelStatistics{}, err
	}

	stats := FuelStatistics{VehicleID: vehicleID}
	if len(rows) > 0 {
		stats.TotalQuantity = rows[0].TotalQuantity
		stats.TotalCost = rows[0].TotalCost
		stats.TotalDistance = rows[0].TotalDistance
		stats.RecordCount = rows[0].RecordCount
		if rows[0].AvgEfficiency != nil {
			stats.AverageEfficiency = *rows[0].AvgEfficiency
		}
	}
	return stats, nil
}
