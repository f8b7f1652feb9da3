package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coboxlogistic/fleet-backend/internal/fleet"
	"github.com/coboxlogistic/fleet-backend/internal/service"
)

// MileageRecordHandler handles mileage record requests
type MileageRecordHandler struct {
	records *service.MileageRecordService
}

// NewMileageRecordHandler creates a new mileage record handler
func NewMileageRecordHandler(records *service.MileageRecordService) *MileageRecordHandler {
	return &MileageRecordHandler{records: records}
}

type createMileageRecordRequest struct {
	VehicleID     string    `json:"vehicle_id"`
	Date          time.Time `json:"date"`
	StartOdometer float64   `json:"start_odometer"`
	EndOdometer   float64   `json:"end_odometer"`
	Purpose       string    `json:"purpose"`
	DriverID      string    `json:"driver_id,omitempty"`
	Route         string    `json:"route,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// Create records a trip against a vehicle
func (h *MileageRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMileageRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	vehicleID, err := fleet.ParseVehicleID(req.VehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	purpose, err := fleet.ParseMileagePurpose(req.Purpose)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.records.Create(r.Context(), fleet.CreateMileageRecordCommand{
		VehicleID:     vehicleID,
		Date:          req.Date,
		StartOdometer: req.StartOdometer,
		EndOdometer:   req.EndOdometer,
		Purpose:       purpose,
		DriverID:      req.DriverID,
		Route:         req.Route,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMileageRecordResponse(record))
}

// Get returns a single mileage record
func (h *MileageRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.records.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMileageRecordResponse(record))
}

type updateMileageRecordRequest struct {
	Date          time.Time `json:"date"`
	StartOdometer float64   `json:"start_odometer"`
	EndOdometer   float64   `json:"end_odometer"`
	Purpose       string    `json:"purpose"`
	DriverID      string    `json:"driver_id,omitempty"`
	Route         string    `json:"route,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// Update replaces the trip details of a mileage record
func (h *MileageRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateMileageRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	purpose, err := fleet.ParseMileagePurpose(req.Purpose)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.records.Update(r.Context(), r.PathValue("id"), req.Date,
		req.StartOdometer, req.EndOdometer, purpose, req.DriverID, req.Route, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMileageRecordResponse(record))
}

// Delete removes a mileage record
func (h *MileageRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByVehicle lists a vehicle's trips
func (h *MileageRecordHandler) ByVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.records.ByVehicle(r.Context(), fleet.RecordsByVehicleQuery{VehicleID: vehicleID})
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]mileageRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toMileageRecordResponse(record))
	}
	writeJSON(w, http.StatusOK, responses)
}

// ByDateRange lists trips across the whole fleet inside a closed date
// range, optionally filtered by purpose
func (h *MileageRecordHandler) ByDateRange(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("purpose"); raw != "" {
		purpose, err := fleet.ParseMileagePurpose(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		records, err := h.records.ByPurpose(r.Context(), purpose)
		if err != nil {
			writeError(w, err)
			return
		}
		responses := make([]mileageRecordResponse, 0, len(records))
		for _, record := range records {
			responses = append(responses, toMileageRecordResponse(record))
		}
		writeJSON(w, http.StatusOK, responses)
		return
	}

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

	responses := make([]mileageRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toMileageRecordResponse(record))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Statistics returns distance aggregates for a vehicle
func (h *MileageRecordHandler) Statistics(w http.ResponseWriter, r *http.Request) {
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
