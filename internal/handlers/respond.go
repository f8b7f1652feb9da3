package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coboxlogistic/fleet-backend/internal/db"
	"github.com/coboxlogistic/fleet-backend/internal/fleet"
	log "github.com/sirupsen/logrus"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps domain errors to HTTP status codes. Validation
// failures are the caller's fault, transition and version conflicts
// mean the resource moved underneath them.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *fleet.ValidationError
	var transitionErr *fleet.StateTransitionError
	var notFoundErr *fleet.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Error()})
	case errors.As(err, &transitionErr):
		writeJSON(w, http.StatusConflict, map[string]string{"error": transitionErr.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFoundErr.Error()})
	case errors.Is(err, db.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "resource was modified concurrently, retry with fresh state"})
	default:
		log.WithError(err).Error("Unhandled error in request")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// vehicleResponse is the wire shape of a vehicle, maintenance history
// included.
type vehicleResponse struct {
	ID             string                `json:"id"`
	LicensePlate   string                `json:"license_plate"`
	Brand          string                `json:"brand"`
	Model          string                `json:"model"`
	Year           int                   `json:"year"`
	FuelType       string                `json:"fuel_type"`
	EngineCapacity *float64              `json:"engine_capacity,omitempty"`
	CurrentMileage float64               `json:"current_mileage"`
	Status         string                `json:"status"`
	Color          string                `json:"color,omitempty"`
	VIN            string                `json:"vin,omitempty"`
	Description    string                `json:"description,omitempty"`
	Maintenance    []maintenanceResponse `json:"maintenance_records"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int64                 `json:"version"`
}

type maintenanceResponse struct {
	ID                     string     `json:"id"`
	MaintenanceType        string     `json:"maintenance_type"`
	Description            string     `json:"description,omitempty"`
	MileageAtMaintenance   float64    `json:"mileage_at_maintenance"`
	Cost                   float64    `json:"cost"`
	PerformedBy            string     `json:"performed_by,omitempty"`
	MaintenanceDate        time.Time  `json:"maintenance_date"`
	NextMaintenanceMileage *float64   `json:"next_maintenance_mileage,omitempty"`
	NextMaintenanceDate    *time.Time `json:"next_maintenance_date,omitempty"`
	Scheduled              bool       `json:"scheduled"`
}

func toVehicleResponse(v *fleet.Vehicle) vehicleResponse {
	records := v.MaintenanceRecords()
	maintenance := make([]maintenanceResponse, 0, len(records))
	for _, record := range records {
		maintenance = append(maintenance, toMaintenanceResponse(record))
	}
	return vehicleResponse{
		ID:             string(v.ID),
		LicensePlate:   string(v.LicensePlate),
		Brand:          v.Brand,
		Model:          v.Model,
		Year:           v.Year,
		FuelType:       string(v.FuelType),
		EngineCapacity: v.EngineCapacity,
		CurrentMileage: v.CurrentMileage,
		Status:         string(v.Status),
		Color:          v.Color,
		VIN:            v.VIN,
		Description:    v.Description,
		Maintenance:    maintenance,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
		Version:        v.Version,
	}
}

func toMaintenanceResponse(r *fleet.MaintenanceRecord) maintenanceResponse {
	return maintenanceResponse{
		ID:                     r.ID,
		MaintenanceType:        r.MaintenanceType,
		Description:            r.Description,
		MileageAtMaintenance:   r.MileageAtMaintenance,
		Cost:                   r.Cost(),
		PerformedBy:            r.PerformedBy,
		MaintenanceDate:        r.MaintenanceDate,
		NextMaintenanceMileage: r.NextMaintenanceMileage,
		NextMaintenanceDate:    r.NextMaintenanceDate,
		Scheduled:              r.Scheduled,
	}
}

type fuelRecordResponse struct {
	ID              string      `json:"id"`
	VehicleID       string      `json:"vehicle_id"`
	VehiclePlate    string      `json:"vehicle_plate"`
	Date            time.Time   `json:"date"`
	FuelType        string      `json:"fuel_type"`
	Quantity        float64     `json:"quantity"`
	TotalCost       float64     `json:"total_cost"`
	CostPerLiter    float64     `json:"cost_per_liter"`
	CurrentMileage  float64     `json:"current_mileage"`
	Station         string      `json:"station,omitempty"`
	Location        string      `json:"location,omitempty"`
	PreviousMileage *float64    `json:"previous_mileage,omitempty"`
	Efficiency      *efficiency `json:"efficiency,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Version         int64       `json:"version"`
}

type efficiency struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func toFuelRecordResponse(r *fleet.FuelRecord) fuelRecordResponse {
	resp := fuelRecordResponse{
		ID:              r.ID,
		VehicleID:       string(r.VehicleID),
		VehiclePlate:    r.VehiclePlate,
		Date:            r.Date,
		FuelType:        string(r.FuelType),
		Quantity:        r.Quantity,
		TotalCost:       r.TotalCost,
		CostPerLiter:    r.CostPerLiter(),
		CurrentMileage:  r.CurrentMileage,
		Station:         r.Station,
		Location:        r.Location,
		PreviousMileage: r.PreviousMileage,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
	if r.Efficiency != nil {
		resp.Efficiency = &efficiency{Value: r.Efficiency.Value, Unit: string(r.Efficiency.Unit)}
	}
	return resp
}

type mileageRecordResponse struct {
	ID            string    `json:"id"`
	VehicleID     string    `json:"vehicle_id"`
	Date          time.Time `json:"date"`
	StartOdometer float64   `json:"start_odometer"`
	EndOdometer   float64   `json:"end_odometer"`
	Distance      float64   `json:"distance"`
	Purpose       string    `json:"purpose"`
	DriverID      string    `json:"driver_id,omitempty"`
	Route         string    `json:"route,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int64     `json:"version"`
}

func toMileageRecordResponse(r *fleet.MileageRecord) mileageRecordResponse {
	return mileageRecordResponse{
		ID:            r.ID,
		VehicleID:     string(r.VehicleID),
		Date:          r.Date,
		StartOdometer: r.StartOdometer,
		EndOdometer:   r.EndOdometer,
		Distance:      r.Distance,
		Purpose:       string(r.Purpose),
		DriverID:      r.DriverID,
		Route:         r.Route,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
}
