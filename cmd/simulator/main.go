package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// registeredVehicle is the slice of the API response the simulator
// cares about.
type registeredVehicle struct {
	ID           string  `json:"id"`
	LicensePlate string  `json:"license_plate"`
	FuelType     string  `json:"fuel_type"`
	Mileage      float64 `json:"current_mileage"`
}

// vehicleState tracks one simulated vehicle between ticks.
type vehicleState struct {
	ID           string
	Plate        string
	FuelType     string
	Odometer     float64
	SinceRefuel  float64
	LastRefuelAt float64
}

var authToken string

func authorizedRequest(method, url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

var fleetCatalog = []struct {
	Brand    string
	Model    string
	FuelType string
}{
	{"Ford", "Transit", "DIESEL"},
	{"Mercedes-Benz", "Sprinter", "DIESEL"},
	{"Toyota", "Hilux", "DIESEL"},
	{"Renault", "Kangoo", "GASOLINE"},
	{"Volkswagen", "Caddy", "GASOLINE"},
	{"Tesla", "Model Y", "ELECTRIC"},
	{"Nissan", "e-NV200", "ELECTRIC"},
	{"Toyota", "Corolla", "HYBRID"},
	{"Fiat", "Doblo", "LPG"},
}

var purposes = []string{"DELIVERY", "PICKUP", "RELOCATION", "TRAINING"}

func randomPlate() string {
	letters := "ABCDEFGHJKLMNPRSTUVYZ"
	plate := make([]byte, 7)
	for i := 0; i < 2; i++ {
		plate[i] = letters[rand.Intn(len(letters))]
	}
	for i := 2; i < 7; i++ {
		plate[i] = byte('0' + rand.Intn(10))
	}
	return string(plate)
}

func registerVehicle(apiURL string) (*vehicleState, error) {
	entry := fleetCatalog[rand.Intn(len(fleetCatalog))]

	payload := map[string]interface{}{
		"license_plate":   randomPlate(),
		"brand":           entry.Brand,
		"model":           entry.Model,
		"year":            2019 + rand.Intn(7),
		"fuel_type":       entry.FuelType,
		"current_mileage": float64(rand.Intn(80000)),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vehicle: %w", err)
	}

	resp, err := authorizedRequest(http.MethodPost, apiURL+"/vehicles", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to register vehicle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("vehicle registration failed with status: %d", resp.StatusCode)
	}

	var created registeredVehicle
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if err := activateVehicle(apiURL, created.ID); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"vehicle_id": created.ID,
		"plate":      created.LicensePlate,
		"brand":      entry.Brand,
		"model":      entry.Model,
	}).Info("Registered vehicle")

	return &vehicleState{
		ID:           created.ID,
		Plate:        created.LicensePlate,
		FuelType:     created.FuelType,
		Odometer:     created.Mileage,
		LastRefuelAt: created.Mileage,
	}, nil
}

func activateVehicle(apiURL, id string) error {
	data, _ := json.Marshal(map[string]string{"status": "ACTIVE"})
	resp, err := authorizedRequest(http.MethodPut, apiURL+"/vehicles/"+id+"/status", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to activate vehicle: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vehicle activation failed with status: %d", resp.StatusCode)
	}
	return nil
}

func postTrip(apiURL string, s *vehicleState) {
	distance := 20 + rand.Float64()*180
	payload := map[string]interface{}{
		"vehicle_id":     s.ID,
		"date":           time.Now().Format(time.RFC3339),
		"start_odometer": s.Odometer,
		"end_odometer":   s.Odometer + distance,
		"purpose":        purposes[rand.Intn(len(purposes))],
		"driver_id":      fmt.Sprintf("driver-%d", 1+rand.Intn(20)),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to marshal mileage record")
		return
	}

	resp, err := authorizedRequest(http.MethodPost, apiURL+"/mileage-records", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to send mileage record")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.WithFields(log.Fields{"vehicle_id": s.ID, "status": resp.Status}).Warn("Mileage record rejected")
		return
	}

	s.Odometer += distance
	s.SinceRefuel += distance
	log.WithFields(log.Fields{
		"vehicle_id": s.ID,
		"distance":   distance,
		"odometer":   s.Odometer,
	}).Info("Recorded trip")
}

func postRefuel(apiURL string, s *vehicleState) {
	quantity := 25 + rand.Float64()*40
	pricePerLiter := 1.4 + rand.Float64()*0.6
	previous := s.LastRefuelAt

	payload := map[string]interface{}{
		"vehicle_id":       s.ID,
		"vehicle_plate":    s.Plate,
		"date":             time.Now().Format(time.RFC3339),
		"fuel_type":        s.FuelType,
		"quantity":         quantity,
		"total_cost":       quantity * pricePerLiter,
		"current_mileage":  s.Odometer,
		"station":          fmt.Sprintf("Station %d", 1+rand.Intn(8)),
		"previous_mileage": previous,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to marshal fuel record")
		return
	}

	resp, err := authorizedRequest(http.MethodPost, apiURL+"/fuel-records", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to send fuel record")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.WithFields(log.Fields{"vehicle_id": s.ID, "status": resp.Status}).Warn("Fuel record rejected")
		return
	}

	s.LastRefuelAt = s.Odometer
	s.SinceRefuel = 0
	log.WithFields(log.Fields{
		"vehicle_id": s.ID,
		"quantity":   quantity,
		"odometer":   s.Odometer,
	}).Info("Recorded refuel")
}

func simulateVehicle(apiURL string, s *vehicleState, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		postTrip(apiURL, s)

		// Refuel roughly every 600 km of simulated driving
		if s.SinceRefuel > 600 {
			postRefuel(apiURL, s)
		}
	}
}

func main() {
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	fleetSize := 10
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			fleetSize = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting fleet simulation")

	states := make([]*vehicleState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		state, err := registerVehicle(apiURL)
		if err != nil {
			log.WithError(err).Error("Failed to register vehicle")
			continue
		}
		states = append(states, state)
	}

	log.WithField("registered_vehicles", len(states)).Info("Vehicle registration completed")
	if len(states) == 0 {
		log.Error("No vehicles registered. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		time.Sleep(2 * time.Second)
		return
	}

	for _, s := range states {
		go simulateVehicle(apiURL, s, interval)
	}

	log.Info("Fleet simulation started")
	select {}
}
