package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dronefleet/cmd"
	"dronefleet/internal/adapters/out/postgres/dronerepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	gormDB, err := gorm.Open(postgres.Open(configs.PostgresDSN()), &gorm.Config{})
	if err != nil {
		logger.Error("cannot connect to the database", "error", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(&dronerepo.DroneDTO{}, &dronerepo.TrackPointDTO{}); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := app.JobManager().StartAll(); err != nil {
		logger.Error("cannot start background jobs", "error", err)
		os.Exit(1)
	}
	// Resume loops for drones that were mid-flight when the previous
	// process stopped.
	if err := app.JobManager().Reconciliation().Sweep(context.Background()); err != nil {
		logger.Warn("startup reconciliation sweep failed", "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	app.Server().RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.JobManager().StopAll()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err := app.Supervisor().Shutdown(ctx); err != nil {
		logger.Error("simulation shutdown failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	// .env is optional, real deployments inject the environment directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "dronefleet"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		GeocoderBaseURL: envOr("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderTimeout: cmd.ParseDuration(os.Getenv("GEOCODER_TIMEOUT"), 5*time.Second),

		OrderServiceURL:     envOr("ORDER_SERVICE_URL", "http://localhost:8081"),
		OrderServiceToken:   os.Getenv("ORDER_SERVICE_TOKEN"),
		OrderServiceTimeout: cmd.ParseDuration(os.Getenv("ORDER_SERVICE_TIMEOUT"), 5*time.Second),

		TickInterval:  cmd.ParseDuration(os.Getenv("SIM_TICK_INTERVAL"), time.Second),
		DwellDuration: cmd.ParseDuration(os.Getenv("SIM_DWELL"), 3*time.Second),

		DepotLat: cmd.ParseCoordinate(os.Getenv("DEPOT_LAT"), 10.7769),
		DepotLon: cmd.ParseCoordinate(os.Getenv("DEPOT_LON"), 106.7009),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
