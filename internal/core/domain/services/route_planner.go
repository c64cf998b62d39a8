package services

import (
	"time"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"
)

// RoutePlanner is a domain service that turns a route into a distance and a
// wall-clock arrival estimate.
//
// Business rules:
//   - Distances are great-circle (haversine) over the route's waypoints
//   - ETA = distance / cruise speed, anchored at the provided clock reading
//   - Speed must be positive; a route needs at least one waypoint
type RoutePlanner struct{}

// NewRoutePlanner creates a new RoutePlanner instance.
func NewRoutePlanner() RoutePlanner {
	return RoutePlanner{}
}

// RouteDistanceKm sums the great-circle distances along from -> waypoints...
func (RoutePlanner) RouteDistanceKm(from kernel.GeoPoint, waypoints ...kernel.GeoPoint) (float64, error) {
	if len(waypoints) == 0 {
		return 0, errs.NewValueIsRequiredError("waypoints")
	}

	total := 0.0
	current := from
	for _, wp := range waypoints {
		leg, err := current.DistanceKmTo(wp)
		if err != nil {
			return 0, err
		}
		total += leg
		current = wp
	}

	return total, nil
}

// EstimateArrival computes the wall-clock ETA for flying the route
// from -> waypoints... at speedKmh, anchored at now.
func (p RoutePlanner) EstimateArrival(
	from kernel.GeoPoint,
	speedKmh float64,
	now time.Time,
	waypoints ...kernel.GeoPoint,
) (time.Time, error) {
	if speedKmh <= 0 {
		return time.Time{}, errs.NewValueIsInvalidError("speed")
	}

	distance, err := p.RouteDistanceKm(from, waypoints...)
	if err != nil {
		return time.Time{}, err
	}

	hours := distance / speedKmh
	return now.Add(time.Duration(hours * float64(time.Hour))), nil
}

// PlanLegs builds the route legs for an assignment. When the pickup point
// differs from the final destination the route has two legs (pickup first,
// delivery retained for the switch on pickup arrival); otherwise a single
// delivery leg.
func (p RoutePlanner) PlanLegs(
	pickup *kernel.GeoPoint,
	pickupLabel string,
	destination kernel.GeoPoint,
	destinationLabel string,
) (drone.Leg, *drone.Leg, error) {
	deliveryLeg, err := drone.NewLeg(drone.LegKindDelivery, destination, destinationLabel)
	if err != nil {
		return drone.Leg{}, nil, err
	}

	if pickup == nil || pickup.IsEqual(destination) {
		return deliveryLeg, nil, nil
	}

	pickupLeg, err := drone.NewLeg(drone.LegKindPickup, *pickup, pickupLabel)
	if err != nil {
		return drone.Leg{}, nil, err
	}

	return pickupLeg, &deliveryLeg, nil
}
