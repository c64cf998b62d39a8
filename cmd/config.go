package cmd

import (
	"fmt"
	"strconv"
	"time"
)

// Config carries every runtime setting of the fleet service. Values come
// from the environment, see getConfigs in cmd/app.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	GeocoderBaseURL string
	GeocoderTimeout time.Duration

	OrderServiceURL     string
	OrderServiceToken   string
	OrderServiceTimeout time.Duration

	TickInterval  time.Duration
	DwellDuration time.Duration

	DepotLat float64
	DepotLon float64
}

// PostgresDSN renders the connection string for gorm's postgres driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// ParseCoordinate converts an environment value to a coordinate, falling
// back when the variable is empty or malformed.
func ParseCoordinate(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

// ParseDuration converts an environment value to a duration, falling back
// when the variable is empty or malformed.
func ParseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
