// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/guard"
)

var ErrGetAvailableDronesQueryIsNotConstructed = errors.New(
	"GetAvailableDronesQuery must be created via NewGetAvailableDronesQuery constructor",
)

// GetAvailableDronesQuery retrieves the pool of drones ready for dispatch.
type GetAvailableDronesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableDronesQuery creates a query to retrieve the available pool.
// This is a parameterless query that fetches the complete list.
func NewGetAvailableDronesQuery() GetAvailableDronesQuery {
	return GetAvailableDronesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableDronesQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableDronesQueryIsNotConstructed)
}

// DroneSummaryResponse is the read model for one drone in list views.
type DroneSummaryResponse struct {
	ID       kernel.UUID
	Name     string
	Status   string
	Position kernel.GeoPoint
	Battery  float64
	SpeedKmh float64

	OrderID          *kernel.UUID
	EstimatedArrival *time.Time
}
