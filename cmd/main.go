package main

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/coboxlogistic/fleet-backend/internal/auth"
	"github.com/coboxlogistic/fleet-backend/internal/config"
	"github.com/coboxlogistic/fleet-backend/internal/db"
	"github.com/coboxlogistic/fleet-backend/internal/events"
	"github.com/coboxlogistic/fleet-backend/internal/handlers"
	"github.com/coboxlogistic/fleet-backend/internal/middleware"
	"github.com/coboxlogistic/fleet-backend/internal/service"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	database := db.Database(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("Failed to ensure indexes")
	}
	log.Info("Connected to MongoDB")

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize auth service")
	}

	var publisher events.Publisher = events.LogPublisher{}
	if cfg.MQTTBroker != "" {
		mqttPublisher, err := events.NewMQTTPublisher(cfg.MQTTBroker, "fleet-backend")
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		defer mqttPublisher.Close()
		publisher = mqttPublisher
		log.WithField("broker", cfg.MQTTBroker).Info("Publishing events over MQTT")
	}

	vehicleRepo := db.NewMongoVehicleRepository(database)
	fuelRepo := db.NewMongoFuelRecordRepository(database)
	mileageRepo := db.NewMongoMileageRecordRepository(database)
	userRepo := db.NewMongoUserRepository(database)

	vehicleService := service.NewVehicleService(vehicleRepo, publisher, cfg.MaintenancePolicy())
	fuelService := service.NewFuelRecordService(fuelRepo, vehicleRepo, publisher)
	mileageService := service.NewMileageRecordService(mileageRepo, vehicleRepo, publisher)

	authHandler := handlers.NewAuthHandler(authService, userRepo)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	fuelHandler := handlers.NewFuelRecordHandler(fuelService)
	mileageHandler := handlers.NewMileageRecordHandler(mileageService)

	authMw := middleware.NewAuthMiddleware(authService)
	handler := newRouter(authMw, authHandler, vehicleHandler, fuelHandler, mileageHandler)

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.WithError(err).Fatal("HTTP server stopped")
	}
}

// newRouter wires the route table. Writes require the fleet manager or
// operator role, reads only a valid token.
func newRouter(
	authMw *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	vehicleHandler *handlers.VehicleHandler,
	fuelHandler *handlers.FuelRecordHandler,
	mileageHandler *handlers.MileageRecordHandler,
) http.Handler {
	manage := func(h http.HandlerFunc) http.Handler {
		return authMw.RequireRole(auth.RoleFleetManager)(h)
	}
	record := func(h http.HandlerFunc) http.Handler {
		return authMw.RequireRole(auth.RoleOperator)(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("PUT /api/auth/profile", authHandler.UpdateProfile)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)

	mux.Handle("POST /api/vehicles", manage(vehicleHandler.Register))
	mux.HandleFunc("GET /api/vehicles", vehicleHandler.List)
	mux.HandleFunc("GET /api/vehicles/{id}", vehicleHandler.Get)
	mux.Handle("DELETE /api/vehicles/{id}", manage(vehicleHandler.Delete))
	mux.Handle("PUT /api/vehicles/{id}/status", manage(vehicleHandler.UpdateStatus))
	mux.Handle("PUT /api/vehicles/{id}/mileage", record(vehicleHandler.UpdateMileage))

	mux.Handle("POST /api/vehicles/{id}/maintenance", manage(vehicleHandler.RecordMaintenance))
	mux.Handle("POST /api/vehicles/{id}/maintenance/schedule", manage(vehicleHandler.ScheduleMaintenance))
	mux.Handle("PUT /api/vehicles/{id}/maintenance/{recordId}/complete", manage(vehicleHandler.CompleteMaintenance))
	mux.HandleFunc("GET /api/vehicles/{id}/maintenance/overdue", vehicleHandler.OverdueMaintenance)
	mux.HandleFunc("GET /api/vehicles/{id}/maintenance/needed", vehicleHandler.NeedsMaintenance)

	mux.Handle("POST /api/fuel-records", record(fuelHandler.Create))
	mux.HandleFunc("GET /api/fuel-records", fuelHandler.ByDateRange)
	mux.HandleFunc("GET /api/fuel-records/{id}", fuelHandler.Get)
	mux.Handle("PUT /api/fuel-records/{id}", record(fuelHandler.Update))
	mux.Handle("DELETE /api/fuel-records/{id}", manage(fuelHandler.Delete))
	mux.HandleFunc("GET /api/vehicles/{id}/fuel-records", fuelHandler.ByVehicle)
	mux.HandleFunc("GET /api/vehicles/{id}/fuel-records/statistics", fuelHandler.Statistics)

	mux.Handle("POST /api/mileage-records", record(mileageHandler.Create))
	mux.HandleFunc("GET /api/mileage-records", mileageHandler.ByDateRange)
	mux.HandleFunc("GET /api/mileage-records/{id}", mileageHandler.Get)
	mux.Handle("PUT /api/mileage-records/{id}", record(mileageHandler.Update))
	mux.Handle("DELETE /api/mileage-records/{id}", manage(mileageHandler.Delete))
	mux.HandleFunc("GET /api/vehicles/{id}/mileage-records", mileageHandler.ByVehicle)
	mux.HandleFunc("GET /api/vehicles/{id}/mileage-records/statistics", mileageHandler.Statistics)

	return authMw.Authenticate(mux)
}
