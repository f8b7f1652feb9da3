package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coboxlogistic/fleet-backend/internal/fleet"
	"github.com/coboxlogistic/fleet-backend/internal/service"
)

// VehicleHandler handles vehicle lifecycle and maintenance requests
type VehicleHandler struct {
	vehicles *service.VehicleService
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

type registerVehicleRequest struct {
	LicensePlate   string   `json:"license_plate"`
	Brand          string   `json:"brand"`
	Model          string   `json:"model"`
	Year           int      `json:"year"`
	FuelType       string   `json:"fuel_type"`
	EngineCapacity *float64 `json:"engine_capacity,omitempty"`
	CurrentMileage float64  `json:"current_mileage"`
	Color          string   `json:"color,omitempty"`
	VIN            string   `json:"vin,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// Register handles vehicle registration
func (h *VehicleHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	plate, err := fleet.ParseLicensePlate(req.LicensePlate)
	if err != nil {
		writeError(w, err)
		return
	}
	fuelType, err := fleet.ParseFuelType(req.FuelType)
	if err != nil {
		writeError(w, err)
		return
	}

	vehicle, err := h.vehicles.Register(r.Context(), fleet.RegisterVehicleCommand{
		LicensePlate:   plate,
		Brand:          req.Brand,
		Model:          req.Model,
		Year:           req.Year,
		FuelType:       fuelType,
		EngineCapacity: req.EngineCapacity,
		CurrentMileage: req.CurrentMileage,
		Color:          req.Color,
		VIN:            req.VIN,
		Description:    req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVehicleResponse(vehicle))
}

// Get returns a single vehicle by ID
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	vehicle, err := h.vehicles.Get(r.Context(), fleet.VehicleByIDQuery{VehicleID: id})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVehicleResponse(vehicle))
}

// List returns all vehicles, optionally filtered by status
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		vehicles []*fleet.Vehicle
		err      error
	)

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, parseErr := fleet.ParseVehicleStatus(raw)
		if parseErr != nil {
			writeError(w, parseErr)
			return
		}
		vehicles, err = h.vehicles.ListByStatus(r.Context(), fleet.VehiclesByStatusQuery{Status: status})
	} else {
		vehicles, err = h.vehicles.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]vehicleResponse, 0, len(vehicles))
	for _, vehicle := range vehicles {
		responses = append(responses, toVehicleResponse(vehicle))
	}
	writeJSON(w, http.StatusOK, responses)
}

// UpdateStatus drives a vehicle lifecycle transition
func (h *VehicleHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	status, err := fleet.ParseVehicleStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	vehicle, err := h.vehicles.UpdateStatus(r.Context(), fleet.UpdateVehicleStatusCommand{
		VehicleID: id,
		NewStatus: status,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVehicleResponse(vehicle))
}

// UpdateMileage overwrites the vehicle odometer
func (h *VehicleHandler) UpdateMileage(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Mileage float64 `json:"mileage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.UpdateMileage(r.Context(), id, req.Mileage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVehicleResponse(vehicle))
}

// Delete removes a vehicle and its embedded maintenance history
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.vehicles.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type recordMaintenanceRequest struct {
	MaintenanceType        string     `json:"maintenance_type"`
	Description            string     `json:"description,omitempty"`
	Mileage                float64    `json:"mileage"`
	Cost                   float64    `json:"cost"`
	PerformedBy            string     `json:"performed_by,omitempty"`
	Date                   time.Time  `json:"date"`
	NextMaintenanceMileage *float64   `json:"next_maintenance_mileage,omitempty"`
	NextMaintenanceDate    *time.Time `json:"next_maintenance_date,omitempty"`
}

// RecordMaintenance attaches completed maintenance work to a vehicle
func (h *VehicleHandler) RecordMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req recordMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	record, err := h.vehicles.RecordMaintenance(r.Context(), id, req.MaintenanceType,
		req.Description, req.Mileage, req.Cost, req.PerformedBy, req.Date,
		req.NextMaintenanceMileage, req.NextMaintenanceDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMaintenanceResponse(record))
}

type scheduleMaintenanceRequest struct {
	MaintenanceType  string    `json:"maintenance_type"`
	Description      string    `json:"description,omitempty"`
	ScheduledDate    time.Time `json:"scheduled_date"`
	ScheduledMileage float64   `json:"scheduled_mileage"`
}

// ScheduleMaintenance books future maintenance for a vehicle
func (h *VehicleHandler) ScheduleMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req scheduleMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	record, err := h.vehicles.ScheduleMaintenance(r.Context(), fleet.ScheduleMaintenanceCommand{
		VehicleID:        id,
		MaintenanceType:  req.MaintenanceType,
		Description:      req.Description,
		ScheduledDate:    req.ScheduledDate,
		ScheduledMileage: req.ScheduledMileage,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMaintenanceResponse(record))
}

type completeMaintenanceRequest struct {
	ActualMileage float64 `json:"actual_mileage"`
	ActualCost    float64 `json:"actual_cost"`
	PerformedBy   string  `json:"performed_by"`
}

// CompleteMaintenance closes out a scheduled maintenance record
func (h *VehicleHandler) CompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	recordID := r.PathValue("recordId")

	var req completeMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	record, err := h.vehicles.CompleteMaintenance(r.Context(), id, recordID,
		req.ActualMileage, req.ActualCost, req.PerformedBy)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMaintenanceResponse(record))
}

// OverdueMaintenance lists a vehicle's overdue maintenance records
func (h *VehicleHandler) OverdueMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.vehicles.OverdueMaintenance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]maintenanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toMaintenanceResponse(record))
	}
	writeJSON(w, http.StatusOK, responses)
}

// NeedsMaintenance reports whether the vehicle is due per the
// configured maintenance policy
func (h *VehicleHandler) NeedsMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := fleet.ParseVehicleID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	needed, err := h.vehicles.NeedsMaintenance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"needs_maintenance": needed})
}
