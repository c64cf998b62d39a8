package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDroneRepository struct {
	mock.Mock
}

func (m *MockDroneRepository) Add(ctx context.Context, d *drone.Drone) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDroneRepository) Update(ctx context.Context, d *drone.Drone) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDroneRepository) Get(ctx context.Context, id kernel.UUID) (*drone.Drone, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*drone.Drone), args.Error(1)
}

func (m *MockDroneRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*drone.Drone, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(*drone.Drone), args.Error(1)
}

func (m *MockDroneRepository) GetAllAvailable(ctx context.Context) ([]*drone.Drone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*drone.Drone), args.Error(1)
}

func (m *MockDroneRepository) GetAllActive(ctx context.Context) ([]*drone.Drone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*drone.Drone), args.Error(1)
}

// recordingSim records Ensure/Stop calls by drone ID.
type recordingSim struct {
	ensured []string
	stopped []string
}

func (r *recordingSim) Ensure(droneID kernel.UUID) {
	r.ensured = append(r.ensured, droneID.String())
}

func (r *recordingSim) Stop(droneID kernel.UUID) {
	r.stopped = append(r.stopped, droneID.String())
}

func newDrone(t *testing.T) *drone.Drone {
	t.Helper()
	home, err := kernel.NewGeoPoint(10.7769, 106.7009)
	require.NoError(t, err)
	d, err := drone.NewDrone(kernel.NewUUID(), "falcon", home, drone.DefaultSpeedKmh)
	require.NoError(t, err)
	return d
}

func newFlyingDrone(t *testing.T) *drone.Drone {
	t.Helper()
	d := newDrone(t)
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	leg, err := drone.NewLeg(drone.LegKindDelivery, target, "")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, d.Assign(kernel.NewUUID(), leg, nil, now.Add(time.Hour), now))
	return d
}

func newDrainedDrone(t *testing.T) *drone.Drone {
	t.Helper()
	d := newFlyingDrone(t)
	now := time.Now().UTC()
	require.NoError(t, d.MoveTo(d.Destination().Target(), now))
	require.NoError(t, d.OverrideStatus(drone.Available))
	require.Less(t, d.Battery(), drone.MaxBattery)
	return d
}

func TestReconciliationJob_Sweep(t *testing.T) {
	// Arrange
	ctx := t.Context()
	flying := newFlyingDrone(t)
	drained := newDrainedDrone(t)
	rested := newDrone(t)

	mockRepo := new(MockDroneRepository)
	mockRepo.On("GetAllActive", ctx).Return([]*drone.Drone{flying}, nil).Once()
	mockRepo.On("GetAllAvailable", ctx).Return([]*drone.Drone{drained, rested}, nil).Once()

	sim := new(recordingSim)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := jobs.NewReconciliationJob(mockRepo, sim, logger)

	// Act
	err := job.Sweep(ctx)

	// Assert
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{flying.ID().String(), drained.ID().String()}, sim.ensured,
		"moving drones and drained available drones need loops")
	assert.ElementsMatch(t, []string{rested.ID().String()}, sim.stopped,
		"a fully charged available drone needs no loop")
	mockRepo.AssertExpectations(t)
}

func TestReconciliationJob_Sweep_RepositoryError(t *testing.T) {
	// Arrange
	ctx := t.Context()
	mockRepo := new(MockDroneRepository)
	mockRepo.On("GetAllActive", ctx).Return([]*drone.Drone(nil), assert.AnError).Once()

	sim := new(recordingSim)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := jobs.NewReconciliationJob(mockRepo, sim, logger)

	// Act
	err := job.Sweep(ctx)

	// Assert
	require.Error(t, err)
	assert.Empty(t, sim.ensured)
	mockRepo.AssertExpectations(t)
}
