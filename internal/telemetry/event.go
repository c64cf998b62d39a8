// Package telemetry implements the live event stream for the fleet: per-tick
// position updates and lifecycle transitions fanned out to a global
// subscriber set and to sets scoped by order or vehicle.
//
// Delivery is at-most-once and best-effort. There is no replay: a subscriber
// that falls behind or disconnects must resubscribe and re-read current state
// from the registry.
package telemetry

import (
	"fmt"
	"strings"
	"time"

	"dronefleet/internal/pkg/errs"
)

// EventType classifies telemetry events.
type EventType string

const (
	// EventTypePosition is a per-tick position update.
	EventTypePosition EventType = "position"
	// EventTypeStatus is a lifecycle transition (assigned, leg switched,
	// delivering, returning, released).
	EventTypeStatus EventType = "status"
	// EventTypeBattery is a charging milestone.
	EventTypeBattery EventType = "battery"
)

// Event is one telemetry sample streamed to subscribers.
type Event struct {
	Type      EventType `json:"type"`
	DroneID   string    `json:"drone_id"`
	OrderID   string    `json:"order_id,omitempty"`
	Status    string    `json:"status"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Altitude  float64   `json:"altitude,omitempty"`
	Battery   float64   `json:"battery"`
	SpeedKmh  float64   `json:"speed_kmh,omitempty"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// scopeKind tags the subscription scope variants.
type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeOrder
	scopeVehicle
)

// Scope selects which slice of the event stream a subscriber receives:
// everything, one order's events, or one vehicle's events.
type Scope struct {
	kind scopeKind
	id   string
}

// GlobalScope subscribes to every event.
func GlobalScope() Scope {
	return Scope{kind: scopeGlobal}
}

// OrderScope subscribes to events for a single order.
func OrderScope(orderID string) Scope {
	return Scope{kind: scopeOrder, id: orderID}
}

// VehicleScope subscribes to events for a single vehicle.
func VehicleScope(droneID string) Scope {
	return Scope{kind: scopeVehicle, id: droneID}
}

// ParseScope parses the textual scope form used by the subscribe API:
// "global", "order:<id>", or "vehicle:<id>".
func ParseScope(s string) (Scope, error) {
	if s == "" || s == "global" {
		return GlobalScope(), nil
	}

	kind, id, found := strings.Cut(s, ":")
	if !found || id == "" {
		return Scope{}, errs.NewValueIsInvalidErrorWithCause(
			"scope", fmt.Errorf("%q is not a valid scope", s))
	}

	switch kind {
	case "order":
		return OrderScope(id), nil
	case "vehicle":
		return VehicleScope(id), nil
	default:
		return Scope{}, errs.NewValueIsInvalidErrorWithCause(
			"scope", fmt.Errorf("%q is not a valid scope kind", kind))
	}
}

// String returns the textual scope form.
func (s Scope) String() string {
	switch s.kind {
	case scopeOrder:
		return "order:" + s.id
	case scopeVehicle:
		return "vehicle:" + s.id
	default:
		return "global"
	}
}
