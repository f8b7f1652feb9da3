package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coboxlogistic/fleet-backend/internal/fleet"
	"github.com/coboxlogistic/fleet-backend/internal/service"
)

// FuelRecordHandler handles fuel record requests
type FuelRecordHandler struct {
	records *service.FuelRecordService
}

// NewFuelRecordHandler creates a new fuel record handler
func NewFuelRecordHandler(records *service.FuelRecordService) *FuelRecordHandler {
	return &FuelRecordHandler{records: records}
}

type createFuelRecordRequest struct {
	VehicleID       string    `json:"vehicle_id"`
	VehiclePlate    string    `json:"vehicle_plate"`
	Date            time.Time `json:"date"`
	FuelType        string    `json:"fuel_type"`
	Quantity        float64   `json:"quantity"`
	TotalCost       float64   `json:"total_cost"`
	CurrentMileage  float64   `json:"current_mileage"`
	Station         string    `json:"station,omitempty"`
	Location        string    `json:"location,omitempty"`
	PreviousMileage *float64  `json:"previous_mileage,omitempty"`
}

// Create records a fuel purchase against a vehicle
func (h *FuelRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFuelRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	vehicleID, err := fleet.ParseVehicleID(req.VehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	fuelType, err := fleet.ParseFuelType(req.FuelType)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.records.Create(r.Context(), fleet.CreateFuelRecordCommand{
		VehicleID:       vehicleID,
		VehiclePlate:    req.VehiclePlate,
		Date:            req.Date,
		FuelType:        fuelType,
		Quantity:        req.Quantity,
		TotalCost:       req.TotalCost,
		CurrentMileage:  req.CurrentMileage,
		Station:         req.Station,
		Location:        req.Location,
		PreviousMileage: req.PreviousMileage,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFuelRecordResponse(record))
}

// Get returns a single fuel record
func (h *FuelRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.records.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFuelRecordResponse(record))
}

type updateFuelRecordRequest struct {
	FuelType       string  `json:"fuel_type"`
	Quantity       float64 `json:"quantity"`
	TotalCost      float64 `json:"total_cost"`
	CurrentMileage float64 `json:"current_mileage"`
	Station        string  `json:"station,omitempty"`
	Location       string  `json:"location,omitempty"`
}

// Update replaces the purchase details of a fuel record
func (h *FuelRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateFuelRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	fuelType, err := fleet.ParseFuelType(req.FuelType)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.records.Update(r.Context(), r.PathValue("id"), fuelType,
		req.Quantity, req.TotalCost, req.CurrentMileage, req.Station, req.Location)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFuelRecordResponse(record))
}

// Delete removes a fuel record
func (h *FuelRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByVehicle lists a vehicle's fuel records, optionally narrowed to a
// date range via start and end query parameters
func (h *FuelRecordHandler) ByVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var records []*fleet.FuelRecord
	if start, end, ok, rangeErr := dateRangeFromQuery(r); rangeErr != nil {
		writeError(w, rangeErr)
		return
	} else if ok {
		records, err = h.records.ByVehicleAndDateRange(r.Context(), vehicleID, start, end)
	} else {
		records, err = h.records.ByVehicle(r.Context(), fleet.RecordsByVehicleQuery{VehicleID: vehicleID})
	}
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]fuelRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toFuelRecordResponse(record))
	}
	writeJSON(w, http.StatusOK, responses)
}

// ByDateRange lists fuel records across the whole fleet inside a
// closed date range
func (h *FuelRecordHandler) ByDateRange(w http.ResponseWriter, r *http.Request) {
	start, end, ok, err := dateRangeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		http.Error(w, "start and end query parameters are required", http.StatusBadRequest)
		return
	}

	records, err := h.records.ByDateRange(r.Context(), fleet.RecordsByDateRangeQuery{Start: start, End: end})
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]fuelRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toFuelRecordResponse(record))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Statistics returns fuel aggregates for a vehicle
func (h *FuelRecordHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.records.Statistics(r.Context(), vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// dateRangeFromQuery parses optional start and end RFC 3339 query
// parameters. ok is false when neither is present.
func dateRangeFromQuery(r *http.Request) (start, end time.Time, ok bool, err error) {
	rawStart := r.URL.Query().Get("start")
	rawEnd := r.URL.Query().Get("end")
	if rawStart == "" && rawEnd == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, false,
			&fleet.ValidationError{Field: "date range", Reason: "both start and end must be provided"}
	}
	start, err = time.Parse(time.RFC3339, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, false,
			&fleet.ValidationError{Field: "start", Reason: "must be an RFC 3339 timestamp"}
	}
	end, err = time.Parse(time.RFC3339, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, false,
			&fleet.ValidationError{Field: "end", Reason: "must be an RFC 3339 timestamp"}
	}
	return start, end, true, nil
}
