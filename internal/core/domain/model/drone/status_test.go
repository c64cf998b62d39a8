package drone_test

import (
	"testing"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	cases := map[drone.Status]string{
		drone.Unknown:     "unknown",
		drone.Available:   "available",
		drone.Assigned:    "assigned",
		drone.Flying:      "flying",
		drone.Delivering:  "delivering",
		drone.Returning:   "returning",
		drone.Maintenance: "maintenance",
	}
	for status, expected := range cases {
		assert.Equal(t, expected, status.String())
	}
	assert.Equal(t, "unknown", drone.Status(42).String())
}

func TestStatusFromString(t *testing.T) {
	t.Run("parses_valid_statuses", func(t *testing.T) {
		for _, s := range []string{"available", "assigned", "flying", "delivering", "returning", "maintenance"} {
			status, err := drone.StatusFromString(s)
			require.NoError(t, err)
			assert.Equal(t, s, status.String())
		}
	})

	t.Run("rejects_unknown", func(t *testing.T) {
		_, err := drone.StatusFromString("hovering")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Validate(t *testing.T) {
	require.Error(t, drone.Unknown.Validate())
	require.Error(t, drone.Status(42).Validate())
	require.NoError(t, drone.Available.Validate())
	require.NoError(t, drone.Maintenance.Validate())
}

func TestStatus_Assign(t *testing.T) {
	t.Run("available_becomes_flying", func(t *testing.T) {
		next, err := drone.Available.Assign()
		require.NoError(t, err)
		assert.Equal(t, drone.Flying, next)
	})

	t.Run("every_other_status_conflicts", func(t *testing.T) {
		for _, s := range []drone.Status{
			drone.Assigned, drone.Flying, drone.Delivering, drone.Returning, drone.Maintenance,
		} {
			_, err := s.Assign()
			require.ErrorIs(t, err, errs.ErrConflict, "status %s", s)
		}
	})
}

func TestStatus_Transitions(t *testing.T) {
	t.Run("flying_begins_delivering", func(t *testing.T) {
		next, err := drone.Flying.BeginDelivering()
		require.NoError(t, err)
		assert.Equal(t, drone.Delivering, next)

		_, err = drone.Available.BeginDelivering()
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("delivering_begins_return", func(t *testing.T) {
		next, err := drone.Delivering.BeginReturn()
		require.NoError(t, err)
		assert.Equal(t, drone.Returning, next)

		_, err = drone.Flying.BeginReturn()
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("returning_releases_to_available", func(t *testing.T) {
		next, err := drone.Returning.Release()
		require.NoError(t, err)
		assert.Equal(t, drone.Available, next)

		_, err = drone.Delivering.Release()
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestStatus_IsActive(t *testing.T) {
	assert.True(t, drone.Flying.IsActive())
	assert.True(t, drone.Delivering.IsActive())
	assert.True(t, drone.Returning.IsActive())
	assert.False(t, drone.Available.IsActive())
	assert.False(t, drone.Assigned.IsActive())
	assert.False(t, drone.Maintenance.IsActive())
}

func TestStatus_CarriesOrder(t *testing.T) {
	assert.True(t, drone.Assigned.CarriesOrder())
	assert.True(t, drone.Flying.CarriesOrder())
	assert.False(t, drone.Available.CarriesOrder())
	assert.False(t, drone.Maintenance.CarriesOrder())
}
