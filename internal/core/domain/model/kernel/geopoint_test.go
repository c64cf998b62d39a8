package kernel_test

import (
	"testing"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("creates_valid_point", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(10.7769, 106.7009)

		require.NoError(t, err)
		assert.InDelta(t, 10.7769, p.Latitude(), 1e-9)
		assert.InDelta(t, 106.7009, p.Longitude(), 1e-9)
		assert.Zero(t, p.Altitude())
		require.NoError(t, p.Validate())
	})

	t.Run("rejects_latitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = kernel.NewGeoPoint(-90.1, 0)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects_longitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, 180.5)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var p kernel.GeoPoint
		require.Error(t, p.Validate())
	})
}

func TestGeoPoint_WithAltitude(t *testing.T) {
	p, err := kernel.NewGeoPoint(10, 106)
	require.NoError(t, err)

	lifted := p.WithAltitude(50)
	assert.InDelta(t, 50, lifted.Altitude(), 1e-9)
	assert.Zero(t, p.Altitude())
	assert.True(t, p.IsEqual(lifted))
}

func TestGeoPoint_DistanceKmTo(t *testing.T) {
	t.Run("known_distance", func(t *testing.T) {
		// District 1 to Tan Son Nhat, roughly 7 km.
		a, err := kernel.NewGeoPoint(10.7769, 106.7009)
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(10.8188, 106.6520)
		require.NoError(t, err)

		d, err := a.DistanceKmTo(b)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, d, 0.5)
	})

	t.Run("zero_distance_to_self", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(10.7769, 106.7009)
		require.NoError(t, err)

		d, err := p.DistanceKmTo(p)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("unconstructed_point_is_rejected", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(10, 106)
		require.NoError(t, err)

		var zero kernel.GeoPoint
		_, err = p.DistanceKmTo(zero)
		require.Error(t, err)
	})
}

func TestGeoPoint_Step(t *testing.T) {
	t.Run("step_towards_target_shrinks_distance", func(t *testing.T) {
		from, err := kernel.NewGeoPoint(10.7769, 106.7009)
		require.NoError(t, err)
		to, err := kernel.NewGeoPoint(10.7800, 106.7050)
		require.NoError(t, err)

		before, err := from.DistanceKmTo(to)
		require.NoError(t, err)

		bearing, err := from.BearingTo(to)
		require.NoError(t, err)

		moved, err := from.Step(bearing, 0.1)
		require.NoError(t, err)

		after, err := moved.DistanceKmTo(to)
		require.NoError(t, err)
		assert.Less(t, after, before)
		assert.InDelta(t, before-after, 0.1, 0.01)
	})

	t.Run("step_distance_matches_requested", func(t *testing.T) {
		from, err := kernel.NewGeoPoint(10.7769, 106.7009)
		require.NoError(t, err)

		moved, err := from.Step(0, 1.0) // due north
		require.NoError(t, err)

		d, err := from.DistanceKmTo(moved)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, d, 0.001)
	})

	t.Run("carries_altitude", func(t *testing.T) {
		from, err := kernel.NewGeoPointWithAltitude(10.7769, 106.7009, 120)
		require.NoError(t, err)

		moved, err := from.Step(1.0, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, 120, moved.Altitude(), 1e-9)
	})
}

func TestGeoPoint_IsWithinKm(t *testing.T) {
	a, err := kernel.NewGeoPoint(10.7769, 106.7009)
	require.NoError(t, err)
	b, err := kernel.NewGeoPoint(10.7800, 106.7050)
	require.NoError(t, err)

	within, err := a.IsWithinKm(b, 1.0)
	require.NoError(t, err)
	assert.True(t, within)

	within, err = a.IsWithinKm(b, 0.1)
	require.NoError(t, err)
	assert.False(t, within)
}
