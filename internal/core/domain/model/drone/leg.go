package drone

import (
	"fmt"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"
	"dronefleet/internal/pkg/guard"
)

// LegKind tags which segment of the route a Leg represents.
type LegKind int

const (
	// LegKindUnknown is the invalid zero value.
	LegKindUnknown LegKind = iota
	// LegKindPickup targets the pickup point (restaurant or depot hand-off).
	LegKindPickup
	// LegKindDelivery targets the customer's final destination.
	LegKindDelivery
	// LegKindReturnHome targets the drone's home location.
	LegKindReturnHome
)

// String returns the lowercase name of the leg kind.
func (k LegKind) String() string {
	switch k {
	case LegKindPickup:
		return "pickup"
	case LegKindDelivery:
		return "delivery"
	case LegKindReturnHome:
		return "return_home"
	default:
		return "unknown"
	}
}

// LegKindFromString parses the lowercase wire name of a leg kind.
func LegKindFromString(s string) (LegKind, error) {
	switch s {
	case "pickup":
		return LegKindPickup, nil
	case "delivery":
		return LegKindDelivery, nil
	case "return_home":
		return LegKindReturnHome, nil
	default:
		return LegKindUnknown, errs.NewValueIsInvalidErrorWithCause(
			"leg kind", fmt.Errorf("%q is not a valid leg kind", s))
	}
}

// Validate checks that the kind is one of the defined variants.
func (k LegKind) Validate() error {
	switch k {
	case LegKindPickup, LegKindDelivery, LegKindReturnHome:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"leg kind", fmt.Errorf("%d is not a valid leg kind", k))
	}
}

// ErrLegIsNotConstructed is returned when using an improperly initialized Leg.
var ErrLegIsNotConstructed = errs.NewValueIsRequiredError(
	"leg must be created via NewLeg")

// Leg is one directed segment of a drone's route: a target coordinate, a
// human-readable label for it, and a kind saying whether the segment heads to
// the pickup point, the final destination, or back home.
//
// A drone's current destination is a Leg; the optional shape-shifting pickup /
// delivery pair collapses into switching the active Leg on arrival.
type Leg struct {
	kind   LegKind
	target kernel.GeoPoint
	label  string

	guard guard.ConstructorGuard
}

// NewLeg creates a route leg towards target. The label is free-form display
// text (resolved address or place name) and may be empty.
func NewLeg(kind LegKind, target kernel.GeoPoint, label string) (Leg, error) {
	if err := kind.Validate(); err != nil {
		return Leg{}, err
	}
	if err := target.Validate(); err != nil {
		return Leg{}, err
	}

	return Leg{
		kind:   kind,
		target: target,
		label:  label,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Kind returns which route segment this leg represents.
func (l Leg) Kind() LegKind {
	return l.kind
}

// Target returns the leg's target coordinates.
func (l Leg) Target() kernel.GeoPoint {
	return l.target
}

// Label returns the display label for the target.
func (l Leg) Label() string {
	return l.label
}

// Validate checks that the leg was created via NewLeg.
func (l Leg) Validate() error {
	return l.guard.Validate(ErrLegIsNotConstructed)
}
