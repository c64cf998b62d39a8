// Package dronerepo provides data transfer objects and mapping functions for
// drone persistence. This package implements the repository pattern for the
// drone aggregate, handling the conversion between domain entities and
// database representations.
package dronerepo

import (
	"time"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DroneDTO represents the database structure for persisting drone aggregates.
// The version column backs optimistic concurrency: every successful update
// increments it, and stale writers lose.
type DroneDTO struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name              string      `gorm:"type:varchar(255);not null"`
	Status            string      `gorm:"type:varchar(20);not null;index"`
	Position          GeoPointDTO `gorm:"embedded;embeddedPrefix:position_"`
	PositionUpdatedAt time.Time   `gorm:"not null"`

	Destination         LegDTO `gorm:"embedded;embeddedPrefix:dest_"`
	DeliveryDestination LegDTO `gorm:"embedded;embeddedPrefix:delivery_dest_"`
	StartLocation       LegDTO `gorm:"embedded;embeddedPrefix:start_"`

	Home     GeoPointDTO `gorm:"embedded;embeddedPrefix:home_"`
	SpeedKmh float64     `gorm:"not null"`
	Battery  float64     `gorm:"not null"`

	OrderID          *uuid.UUID `gorm:"type:uuid;index"`
	AssignedAt       *time.Time
	EstimatedArrival *time.Time
	DwellStartedAt   *time.Time
	OrderNotified    bool `gorm:"not null;default:false"`

	Version int64 `gorm:"not null"`

	TrackPoints []TrackPointDTO `gorm:"foreignKey:DroneID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for drone entities.
func (DroneDTO) TableName() string {
	return "drones"
}

// GeoPointDTO represents embedded geographic coordinates.
type GeoPointDTO struct {
	Lat float64 `gorm:"type:double precision"`
	Lon float64 `gorm:"type:double precision"`
	Alt float64 `gorm:"type:double precision"`
}

// LegDTO represents an optional embedded route leg. A null kind means the
// leg is absent.
type LegDTO struct {
	Kind  *string  `gorm:"type:varchar(16)"`
	Lat   *float64 `gorm:"type:double precision"`
	Lon   *float64 `gorm:"type:double precision"`
	Alt   *float64 `gorm:"type:double precision"`
	Label *string  `gorm:"type:varchar(255)"`
}

// TrackPointDTO represents one entry of a drone's trailing flight history.
// Seq preserves the recording order within a drone.
type TrackPointDTO struct {
	DroneID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`
	Lat        float64   `gorm:"type:double precision;not null"`
	Lon        float64   `gorm:"type:double precision;not null"`
	Alt        float64   `gorm:"type:double precision;not null"`
	RecordedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for track point entities.
func (TrackPointDTO) TableName() string {
	return "drone_track_points"
}

// fromDomain converts a drone aggregate to its database representation.
func fromDomain(aggregate *drone.Drone) DroneDTO {
	droneID := aggregate.ID().Bytes()

	trackPoints := make([]TrackPointDTO, 0, len(aggregate.FlightHistory()))
	for i, tp := range aggregate.FlightHistory() {
		trackPoints = append(trackPoints, TrackPointDTO{
			DroneID:    droneID,
			Seq:        i,
			Lat:        tp.Position.Latitude(),
			Lon:        tp.Position.Longitude(),
			Alt:        tp.Position.Altitude(),
			RecordedAt: tp.At,
		})
	}

	var orderID *uuid.UUID
	if aggregate.OrderID() != nil {
		raw := aggregate.OrderID().Bytes()
		orderID = &raw
	}

	return DroneDTO{
		ID:                  droneID,
		Name:                aggregate.Name(),
		Status:              aggregate.Status().String(),
		Position:            geoPointFromDomain(aggregate.Position()),
		PositionUpdatedAt:   aggregate.PositionUpdatedAt(),
		Destination:         legFromDomain(aggregate.Destination()),
		DeliveryDestination: legFromDomain(aggregate.DeliveryDestination()),
		StartLocation:       legFromDomain(aggregate.StartLocation()),
		Home:                geoPointFromDomain(aggregate.HomeLocation()),
		SpeedKmh:            aggregate.SpeedKmh(),
		Battery:             aggregate.Battery(),
		OrderID:             orderID,
		AssignedAt:          aggregate.AssignedAt(),
		EstimatedArrival:    aggregate.EstimatedArrival(),
		DwellStartedAt:      aggregate.DwellStartedAt(),
		OrderNotified:       aggregate.OrderNotified(),
		Version:             aggregate.Version(),
		TrackPoints:         trackPoints,
	}
}

// toDomain converts a database DTO to a drone aggregate.
// Reconstructs the complete aggregate including the flight history using
// RestoreDrone.
func toDomain(dto DroneDTO) (*drone.Drone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := drone.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	position, err := geoPointToDomain(dto.Position)
	if err != nil {
		return nil, err
	}

	home, err := geoPointToDomain(dto.Home)
	if err != nil {
		return nil, err
	}

	destination, err := legToDomain(dto.Destination)
	if err != nil {
		return nil, err
	}

	deliveryDestination, err := legToDomain(dto.DeliveryDestination)
	if err != nil {
		return nil, err
	}

	startLocation, err := legToDomain(dto.StartLocation)
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	history := make([]drone.TrackPoint, 0, len(dto.TrackPoints))
	for _, tp := range dto.TrackPoints {
		point, pointErr := kernel.NewGeoPointWithAltitude(tp.Lat, tp.Lon, tp.Alt)
		if pointErr != nil {
			return nil, pointErr
		}
		history = append(history, drone.TrackPoint{Position: point, At: tp.RecordedAt})
	}

	return drone.RestoreDrone(drone.RestoreDroneParams{
		ID:                  id,
		Name:                dto.Name,
		Status:              status,
		Position:            position,
		PositionUpdatedAt:   dto.PositionUpdatedAt,
		Destination:         destination,
		DeliveryDestination: deliveryDestination,
		StartLocation:       startLocation,
		HomeLocation:        home,
		SpeedKmh:            dto.SpeedKmh,
		Battery:             dto.Battery,
		History:             history,
		OrderID:             orderID,
		AssignedAt:          dto.AssignedAt,
		EstimatedArrival:    dto.EstimatedArrival,
		DwellStartedAt:      dto.DwellStartedAt,
		OrderNotified:       dto.OrderNotified,
		Version:             dto.Version,
	})
}

func geoPointFromDomain(p kernel.GeoPoint) GeoPointDTO {
	return GeoPointDTO{
		Lat: p.Latitude(),
		Lon: p.Longitude(),
		Alt: p.Altitude(),
	}
}

func geoPointToDomain(dto GeoPointDTO) (kernel.GeoPoint, error) {
	return kernel.NewGeoPointWithAltitude(dto.Lat, dto.Lon, dto.Alt)
}

func legFromDomain(leg *drone.Leg) LegDTO {
	if leg == nil {
		return LegDTO{}
	}

	kind := leg.Kind().String()
	lat := leg.Target().Latitude()
	lon := leg.Target().Longitude()
	alt := leg.Target().Altitude()
	label := leg.Label()

	return LegDTO{
		Kind:  &kind,
		Lat:   &lat,
		Lon:   &lon,
		Alt:   &alt,
		Label: &label,
	}
}

func legToDomain(dto LegDTO) (*drone.Leg, error) {
	if dto.Kind == nil {
		return nil, nil //nolint:nilnil //absent leg
	}

	kind, err := drone.LegKindFromString(*dto.Kind)
	if err != nil {
		return nil, err
	}

	target, err := kernel.NewGeoPointWithAltitude(*dto.Lat, *dto.Lon, *dto.Alt)
	if err != nil {
		return nil, err
	}

	var label string
	if dto.Label != nil {
		label = *dto.Label
	}

	leg, err := drone.NewLeg(kind, target, label)
	if err != nil {
		return nil, err
	}
	return &leg, nil
}
