package queries

import (
	"errors"
	"time"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/guard"
)

var ErrGetDroneByIDQueryIsNotConstructed = errors.New(
	"GetDroneByIDQuery must be created via NewGetDroneByIDQuery constructor",
)

// GetDroneByIDQuery retrieves the full detail view of a single drone,
// including its route legs and trailing flight history.
type GetDroneByIDQuery struct {
	droneID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDroneByIDQuery creates a query for one drone's detail view.
func NewGetDroneByIDQuery(droneID kernel.UUID) (GetDroneByIDQuery, error) {
	if err := droneID.Validate(); err != nil {
		return GetDroneByIDQuery{}, err
	}

	return GetDroneByIDQuery{
		droneID: droneID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDroneByIDQuery) Validate() error {
	return q.guard.Validate(ErrGetDroneByIDQueryIsNotConstructed)
}

// DroneID returns the drone being looked up.
func (q GetDroneByIDQuery) DroneID() kernel.UUID {
	return q.droneID
}

// RouteLegResponse is the read model for one route leg of a drone.
type RouteLegResponse struct {
	Kind   string
	Target kernel.GeoPoint
	Label  string
}

// TrackPointResponse is the read model for one flight history entry.
type TrackPointResponse struct {
	Position   kernel.GeoPoint
	RecordedAt time.Time
}

// DroneDetailResponse is the full read model for a single drone.
type DroneDetailResponse struct {
	DroneSummaryResponse

	PositionUpdatedAt time.Time
	Home              kernel.GeoPoint

	Destination         *RouteLegResponse
	DeliveryDestination *RouteLegResponse
	StartLocation       *RouteLegResponse

	AssignedAt    *time.Time
	OrderNotified bool

	FlightHistory []TrackPointResponse
}
