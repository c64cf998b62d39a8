package http

import (
	"time"

	"dronefleet/internal/core/application/usecases/queries"
	"dronefleet/internal/core/domain/model/kernel"
)

// Error is the uniform error body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GeoPoint is the wire form of a coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt,omitempty"`
}

// RegisterDroneRequest is the body of POST /api/v1/drones.
type RegisterDroneRequest struct {
	Name     string    `json:"name"`
	Home     *GeoPoint `json:"home,omitempty"`
	SpeedKmh float64   `json:"speed_kmh,omitempty"`
}

// RegisterDroneResponse returns the generated vehicle ID.
type RegisterDroneResponse struct {
	ID string `json:"id"`
}

// AssignDroneRequest is the body of POST /api/v1/drones/:id/assignment.
// Destination and pickup are optional; an absent destination is resolved
// from the order service.
type AssignDroneRequest struct {
	OrderID          string    `json:"order_id"`
	Destination      *GeoPoint `json:"destination,omitempty"`
	DestinationLabel string    `json:"destination_label,omitempty"`
	Pickup           *GeoPoint `json:"pickup,omitempty"`
	PickupLabel      string    `json:"pickup_label,omitempty"`
}

// SetStatusRequest is the body of PUT /api/v1/drones/:id/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetLocationRequest is the body of PUT /api/v1/drones/:id/location.
type SetLocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt,omitempty"`
}

// DroneSummary is the list-view wire form of a drone.
type DroneSummary struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Status           string     `json:"status"`
	Position         GeoPoint   `json:"position"`
	Battery          float64    `json:"battery"`
	SpeedKmh         float64    `json:"speed_kmh"`
	OrderID          *string    `json:"order_id,omitempty"`
	EstimatedArrival *time.Time `json:"estimated_arrival,omitempty"`
}

// RouteLeg is the wire form of one route leg.
type RouteLeg struct {
	Kind   string   `json:"kind"`
	Target GeoPoint `json:"target"`
	Label  string   `json:"label,omitempty"`
}

// TrackPoint is the wire form of one flight history entry.
type TrackPoint struct {
	Position   GeoPoint  `json:"position"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DroneDetail is the full wire form of a drone.
type DroneDetail struct {
	DroneSummary

	PositionUpdatedAt time.Time `json:"position_updated_at"`
	Home              GeoPoint  `json:"home"`

	Destination         *RouteLeg `json:"destination,omitempty"`
	DeliveryDestination *RouteLeg `json:"delivery_destination,omitempty"`
	StartLocation       *RouteLeg `json:"start_location,omitempty"`

	AssignedAt    *time.Time `json:"assigned_at,omitempty"`
	OrderNotified bool       `json:"order_notified"`

	FlightHistory []TrackPoint `json:"flight_history"`
}

func geoPointToWire(p kernel.GeoPoint) GeoPoint {
	return GeoPoint{Lat: p.Latitude(), Lon: p.Longitude(), Alt: p.Altitude()}
}

func geoPointFromWire(p *GeoPoint) (*kernel.GeoPoint, error) {
	if p == nil {
		return nil, nil //nolint:nilnil //absent point
	}
	point, err := kernel.NewGeoPointWithAltitude(p.Lat, p.Lon, p.Alt)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func summaryToWire(summary queries.DroneSummaryResponse) DroneSummary {
	out := DroneSummary{
		ID:               summary.ID.String(),
		Name:             summary.Name,
		Status:           summary.Status,
		Position:         geoPointToWire(summary.Position),
		Battery:          summary.Battery,
		SpeedKmh:         summary.SpeedKmh,
		EstimatedArrival: summary.EstimatedArrival,
	}
	if summary.OrderID != nil {
		orderID := summary.OrderID.String()
		out.OrderID = &orderID
	}
	return out
}

func legToWire(leg *queries.RouteLegResponse) *RouteLeg {
	if leg == nil {
		return nil
	}
	return &RouteLeg{
		Kind:   leg.Kind,
		Target: geoPointToWire(leg.Target),
		Label:  leg.Label,
	}
}

func detailToWire(detail queries.DroneDetailResponse) DroneDetail {
	history := make([]TrackPoint, 0, len(detail.FlightHistory))
	for _, tp := range detail.FlightHistory {
		history = append(history, TrackPoint{
			Position:   geoPointToWire(tp.Position),
			RecordedAt: tp.RecordedAt,
		})
	}

	return DroneDetail{
		DroneSummary:        summaryToWire(detail.DroneSummaryResponse),
		PositionUpdatedAt:   detail.PositionUpdatedAt,
		Home:                geoPointToWire(detail.Home),
		Destination:         legToWire(detail.Destination),
		DeliveryDestination: legToWire(detail.DeliveryDestination),
		StartLocation:       legToWire(detail.StartLocation),
		AssignedAt:          detail.AssignedAt,
		OrderNotified:       detail.OrderNotified,
		FlightHistory:       history,
	}
}
