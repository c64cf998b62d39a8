package commands

import (
	"time"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/telemetry"
)

// eventFromDrone snapshots a drone into a telemetry event.
func eventFromDrone(d *drone.Drone, eventType telemetry.EventType, note string) telemetry.Event {
	event := telemetry.Event{
		Type:      eventType,
		DroneID:   d.ID().String(),
		Status:    d.Status().String(),
		Lat:       d.Position().Latitude(),
		Lon:       d.Position().Longitude(),
		Altitude:  d.Position().Altitude(),
		Battery:   d.Battery(),
		SpeedKmh:  d.SpeedKmh(),
		Note:      note,
		Timestamp: time.Now().UTC(),
	}
	if d.OrderID() != nil {
		event.OrderID = d.OrderID().String()
	}
	return event
}
