package services_test

import (
	"testing"
	"time"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/core/domain/services"
	"dronefleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func TestRoutePlanner_RouteDistanceKm(t *testing.T) {
	planner := services.NewRoutePlanner()

	t.Run("single_waypoint", func(t *testing.T) {
		from := point(t, 10.7769, 106.7009)
		to := point(t, 10.7800, 106.7050)

		d, err := planner.RouteDistanceKm(from, to)
		require.NoError(t, err)

		direct, err := from.DistanceKmTo(to)
		require.NoError(t, err)
		assert.InDelta(t, direct, d, 1e-9)
	})

	t.Run("multi_leg_route_sums_segments", func(t *testing.T) {
		from := point(t, 10.7769, 106.7009)
		pickup := point(t, 10.7790, 106.7020)
		dest := point(t, 10.7850, 106.7100)

		total, err := planner.RouteDistanceKm(from, pickup, dest)
		require.NoError(t, err)

		leg1, err := from.DistanceKmTo(pickup)
		require.NoError(t, err)
		leg2, err := pickup.DistanceKmTo(dest)
		require.NoError(t, err)
		assert.InDelta(t, leg1+leg2, total, 1e-9)
	})

	t.Run("requires_waypoints", func(t *testing.T) {
		_, err := planner.RouteDistanceKm(point(t, 10, 106))
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRoutePlanner_EstimateArrival(t *testing.T) {
	planner := services.NewRoutePlanner()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("eta_is_distance_over_speed", func(t *testing.T) {
		from := point(t, 10.7769, 106.7009)
		to := point(t, 10.7800, 106.7050)

		eta, err := planner.EstimateArrival(from, 20, now, to)
		require.NoError(t, err)

		distance, err := from.DistanceKmTo(to)
		require.NoError(t, err)
		expected := now.Add(time.Duration(distance / 20 * float64(time.Hour)))
		assert.WithinDuration(t, expected, eta, time.Millisecond)
		assert.True(t, eta.After(now))
	})

	t.Run("requires_positive_speed", func(t *testing.T) {
		_, err := planner.EstimateArrival(point(t, 10, 106), 0, now, point(t, 10.1, 106.1))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRoutePlanner_PlanLegs(t *testing.T) {
	planner := services.NewRoutePlanner()
	dest := point(t, 10.7850, 106.7100)

	t.Run("no_pickup_yields_single_delivery_leg", func(t *testing.T) {
		first, final, err := planner.PlanLegs(nil, "", dest, "customer")
		require.NoError(t, err)

		assert.Equal(t, drone.LegKindDelivery, first.Kind())
		assert.Equal(t, "customer", first.Label())
		assert.Nil(t, final)
	})

	t.Run("pickup_equal_to_destination_collapses_to_one_leg", func(t *testing.T) {
		samePoint := dest
		first, final, err := planner.PlanLegs(&samePoint, "restaurant", dest, "customer")
		require.NoError(t, err)

		assert.Equal(t, drone.LegKindDelivery, first.Kind())
		assert.Nil(t, final)
	})

	t.Run("distinct_pickup_yields_two_legs", func(t *testing.T) {
		pickup := point(t, 10.7790, 106.7020)
		first, final, err := planner.PlanLegs(&pickup, "restaurant", dest, "customer")
		require.NoError(t, err)

		assert.Equal(t, drone.LegKindPickup, first.Kind())
		assert.True(t, first.Target().IsEqual(pickup))
		require.NotNil(t, final)
		assert.Equal(t, drone.LegKindDelivery, final.Kind())
		assert.True(t, final.Target().IsEqual(dest))
	})
}
