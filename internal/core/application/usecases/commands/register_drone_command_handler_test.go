package commands_test

import (
	"errors"
	"testing"

	"dronefleet/internal/core/application/usecases/commands"
	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func depotLocation(t *testing.T) kernel.GeoPoint {
	t.Helper()
	depot, err := kernel.NewGeoPoint(10.7769, 106.7009)
	require.NoError(t, err)
	return depot
}

func TestRegisterDroneCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	depot := depotLocation(t)

	cmd, err := commands.NewRegisterDroneCommand("falcon-1", nil, 0)
	require.NoError(t, err)

	var captured *drone.Drone
	mockRepo := new(MockDroneRepository)
	mockRepo.On("Add", ctx, mock.MatchedBy(func(d *drone.Drone) bool {
		captured = d
		return true
	})).Return(nil).Once()

	handler := commands.NewRegisterDroneCommandHandler(mockRepo, depot)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.True(t, cmd.DroneID().IsEqual(captured.ID()))
	assert.Equal(t, "falcon-1", captured.Name())
	assert.Equal(t, drone.Available, captured.Status())
	assert.True(t, depot.IsEqual(captured.Position()), "home defaults to the depot")
	assert.InDelta(t, drone.MaxBattery, captured.Battery(), 1e-9)
	assert.InDelta(t, drone.DefaultSpeedKmh, captured.SpeedKmh(), 1e-9)
	require.NoError(t, captured.Validate())
	mockRepo.AssertExpectations(t)
}

func TestRegisterDroneCommandHandler_Handle_ExplicitHome(t *testing.T) {
	// Arrange
	ctx := t.Context()
	depot := depotLocation(t)
	home, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)

	cmd, err := commands.NewRegisterDroneCommand("falcon-2", &home, 30)
	require.NoError(t, err)

	var captured *drone.Drone
	mockRepo := new(MockDroneRepository)
	mockRepo.On("Add", ctx, mock.MatchedBy(func(d *drone.Drone) bool {
		captured = d
		return true
	})).Return(nil).Once()

	handler := commands.NewRegisterDroneCommandHandler(mockRepo, depot)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.True(t, home.IsEqual(captured.HomeLocation()))
	assert.InDelta(t, 30.0, captured.SpeedKmh(), 1e-9)
	mockRepo.AssertExpectations(t)
}

func TestRegisterDroneCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.RegisterDroneCommand

	mockRepo := new(MockDroneRepository)
	handler := commands.NewRegisterDroneCommandHandler(mockRepo, depotLocation(t))

	// Act
	err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrRegisterDroneCommandIsNotConstructed)
	mockRepo.AssertExpectations(t)
}

func TestRegisterDroneCommandHandler_Handle_RepositoryAddError(t *testing.T) {
	// Arrange
	ctx := t.Context()
	expectedError := errors.New("repository add failed")

	cmd, err := commands.NewRegisterDroneCommand("falcon-3", nil, 0)
	require.NoError(t, err)

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Add", ctx, mock.AnythingOfType("*drone.Drone")).Return(expectedError).Once()

	handler := commands.NewRegisterDroneCommandHandler(mockRepo, depotLocation(t))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	assert.Equal(t, expectedError, err)
	mockRepo.AssertExpectations(t)
}
