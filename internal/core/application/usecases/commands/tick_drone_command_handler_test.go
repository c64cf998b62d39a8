package commands_test

import (
	"errors"
	"testing"
	"time"

	"dronefleet/internal/core/application/usecases/commands"
	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"
	"dronefleet/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func flyingDrone(t *testing.T, target kernel.GeoPoint) *drone.Drone {
	t.Helper()
	d := availableDrone(t)
	leg, err := drone.NewLeg(drone.LegKindDelivery, target, "customer")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, d.Assign(kernel.NewUUID(), leg, nil, now.Add(time.Hour), now))
	return d
}

func newTickHandler(
	repo *MockDroneRepository,
	orders *MockOrderServiceClient,
	publisher *CollectingPublisher,
) commands.TickDroneCommandHandler {
	return commands.NewTickDroneCommandHandler(
		repo, orders, publisher, commands.DefaultTickSettings(), discardLogger())
}

func tickOnce(t *testing.T, handler commands.TickDroneCommandHandler, droneID kernel.UUID) (commands.TickOutcome, error) {
	t.Helper()
	cmd, err := commands.NewTickDroneCommand(droneID)
	require.NoError(t, err)
	return handler.Handle(t.Context(), cmd)
}

func TestTickDroneCommandHandler_Handle_MissingDroneStopsLoop(t *testing.T) {
	// Arrange
	droneID := kernel.NewUUID()
	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, droneID).
		Return(nil, errs.NewObjectNotFoundError("droneID", droneID)).Once()

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), new(CollectingPublisher))

	// Act
	outcome, err := tickOnce(t, handler, droneID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickStop, outcome)
	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_ChargesAvailableDrone(t *testing.T) {
	// Arrange
	d := availableDrone(t)
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	// Drain the battery by flying a short trip first.
	leg, err := drone.NewLeg(drone.LegKindDelivery, target, "")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, d.Assign(kernel.NewUUID(), leg, nil, now, now))
	require.NoError(t, d.MoveTo(target, now))
	require.NoError(t, d.BeginDelivering(now))
	require.NoError(t, d.BeginReturn(now))
	require.NoError(t, d.OverrideStatus(drone.Available))
	before := d.Battery()
	require.Less(t, before, drone.MaxBattery)

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockRepo.On("Update", mock.Anything, d).Return(nil).Once()

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), new(CollectingPublisher))

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickContinue, outcome)
	assert.InDelta(t, before+drone.BatteryChargeStep, d.Battery(), 1e-9)
	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_FullBatteryStopsChargeLoop(t *testing.T) {
	// Arrange
	d := availableDrone(t)
	require.InDelta(t, drone.MaxBattery, d.Battery(), 1e-9)

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), new(CollectingPublisher))

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickStop, outcome)
	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_MoveAdvancesTowardsTarget(t *testing.T) {
	// Arrange
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	d := flyingDrone(t, target)
	startDistance, err := d.Position().DistanceKmTo(target)
	require.NoError(t, err)
	batteryBefore := d.Battery()

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockRepo.On("Update", mock.Anything, d).Return(nil).Once()
	publisher := new(CollectingPublisher)

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), publisher)

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickContinue, outcome)
	assert.Equal(t, drone.Flying, d.Status())

	newDistance, err := d.Position().DistanceKmTo(target)
	require.NoError(t, err)
	assert.Less(t, newDistance, startDistance, "each tick must shrink the remaining distance")
	assert.InDelta(t, batteryBefore-drone.BatteryDrainPerTick, d.Battery(), 1e-9)
	assert.InDelta(t, drone.CruiseAltitudeMeters, d.Position().Altitude(), 1e-9)

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, telemetry.EventTypePosition, events[0].Type)

	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_ArrivalStartsDwell(t *testing.T) {
	// Arrange
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	d := flyingDrone(t, target)
	// Park the drone just short of the target, inside the arrival threshold.
	near, err := kernel.NewGeoPoint(10.8230, 106.6297)
	require.NoError(t, err)
	require.NoError(t, d.OverrideLocation(near, time.Now().UTC()))

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockRepo.On("Update", mock.Anything, d).Return(nil).Once()
	publisher := new(CollectingPublisher)

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), publisher)

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickContinue, outcome)
	assert.Equal(t, drone.Delivering, d.Status())
	assert.True(t, target.IsEqual(d.Position()), "arrival snaps to the exact target")

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, telemetry.EventTypeStatus, events[0].Type)
	assert.Equal(t, "delivering", events[0].Note)

	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_PickupArrivalSwitchesLeg(t *testing.T) {
	// Arrange
	d := availableDrone(t)
	pickup, err := kernel.NewGeoPoint(10.7905, 106.6989)
	require.NoError(t, err)
	destination, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	pickupLeg, err := drone.NewLeg(drone.LegKindPickup, pickup, "restaurant")
	require.NoError(t, err)
	deliveryLeg, err := drone.NewLeg(drone.LegKindDelivery, destination, "customer")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, d.Assign(kernel.NewUUID(), pickupLeg, &deliveryLeg, now.Add(time.Hour), now))
	require.NoError(t, d.OverrideLocation(pickup, now))

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockRepo.On("Update", mock.Anything, d).Return(nil).Once()
	publisher := new(CollectingPublisher)

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), publisher)

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickContinue, outcome)
	assert.Equal(t, drone.Flying, d.Status(), "pickup arrival is not a final arrival")
	require.NotNil(t, d.Destination())
	assert.Equal(t, drone.LegKindDelivery, d.Destination().Kind())
	assert.Nil(t, d.DeliveryDestination())

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "pickup complete", events[0].Note)

	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_DwellElapsedNotifiesAndReturns(t *testing.T) {
	// Arrange
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	d := flyingDrone(t, target)
	orderID := *d.OrderID()
	// Arrive and let the dwell elapse.
	past := time.Now().UTC().Add(-10 * time.Second)
	require.NoError(t, d.BeginDelivering(past))

	mockRepo := new(MockDroneRepository)
	mockOrders := new(MockOrderServiceClient)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockOrders.On("MarkFulfilled", mock.Anything, orderID).Return(nil).Once()
	mockRepo.On("Update", mock.Anything, d).Return(nil).Once()
	publisher := new(CollectingPublisher)

	handler := newTickHandler(mockRepo, mockOrders, publisher)

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickContinue, outcome)
	assert.Equal(t, drone.Returning, d.Status())
	require.NotNil(t, d.Destination())
	assert.Equal(t, drone.LegKindReturnHome, d.Destination().Kind())
	assert.True(t, d.HomeLocation().IsEqual(d.Destination().Target()))
	assert.True(t, d.OrderNotified())

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "returning home", events[0].Note)

	mockRepo.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_DwellNotElapsedWaits(t *testing.T) {
	// Arrange
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	d := flyingDrone(t, target)
	require.NoError(t, d.BeginDelivering(time.Now().UTC()))

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	publisher := new(CollectingPublisher)

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), publisher)

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickContinue, outcome)
	assert.Equal(t, drone.Delivering, d.Status())
	assert.Empty(t, publisher.Events())
	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_LocationOverrideDoesNotRestartDwell(t *testing.T) {
	// Arrange: the dwell elapsed, but a manual reposition just refreshed the
	// position timestamp.
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	d := flyingDrone(t, target)
	orderID := *d.OrderID()
	past := time.Now().UTC().Add(-10 * time.Second)
	require.NoError(t, d.BeginDelivering(past))
	nudge, err := kernel.NewGeoPoint(10.8232, 106.6298)
	require.NoError(t, err)
	require.NoError(t, d.OverrideLocation(nudge, time.Now().UTC()))

	mockRepo := new(MockDroneRepository)
	mockOrders := new(MockOrderServiceClient)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockOrders.On("MarkFulfilled", mock.Anything, orderID).Return(nil).Once()
	mockRepo.On("Update", mock.Anything, d).Return(nil).Once()
	publisher := new(CollectingPublisher)

	handler := newTickHandler(mockRepo, mockOrders, publisher)

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert: the hand-off pause is keyed to the delivery arrival, so the
	// reposition does not delay the return leg.
	require.NoError(t, err)
	assert.Equal(t, commands.TickContinue, outcome)
	assert.Equal(t, drone.Returning, d.Status())
	mockRepo.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_NotifyFailureDoesNotBlockReturn(t *testing.T) {
	// Arrange
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	d := flyingDrone(t, target)
	orderID := *d.OrderID()
	past := time.Now().UTC().Add(-10 * time.Second)
	require.NoError(t, d.BeginDelivering(past))

	mockRepo := new(MockDroneRepository)
	mockOrders := new(MockOrderServiceClient)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockOrders.On("MarkFulfilled", mock.Anything, orderID).
		Return(errors.New("order service down")).Once()
	mockRepo.On("Update", mock.Anything, d).Return(nil).Once()

	handler := newTickHandler(mockRepo, mockOrders, new(CollectingPublisher))

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err, "notification failures are swallowed")
	assert.Equal(t, commands.TickContinue, outcome)
	assert.Equal(t, drone.Returning, d.Status())
	assert.True(t, d.OrderNotified(), "the one-shot flag stays set even on failure")
	mockRepo.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_HomeArrivalResetsDrone(t *testing.T) {
	// Arrange
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	d := flyingDrone(t, target)
	past := time.Now().UTC().Add(-10 * time.Second)
	require.NoError(t, d.BeginDelivering(past))
	require.NoError(t, d.BeginReturn(past))
	require.NoError(t, d.OverrideLocation(d.HomeLocation(), time.Now().UTC()))

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockRepo.On("Update", mock.Anything, d).Return(nil).Once()
	publisher := new(CollectingPublisher)

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), publisher)

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickStop, outcome, "a drone resting at home needs no more ticks")
	assert.Equal(t, drone.Available, d.Status())
	assert.True(t, d.HomeLocation().IsEqual(d.Position()))
	assert.InDelta(t, drone.MaxBattery, d.Battery(), 1e-9)
	assert.Nil(t, d.OrderID())
	assert.Nil(t, d.Destination())
	assert.Nil(t, d.EstimatedArrival())

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "returned home", events[0].Note)

	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_MaintenanceStopsLoop(t *testing.T) {
	// Arrange
	d := availableDrone(t)
	require.NoError(t, d.OverrideStatus(drone.Maintenance))

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), new(CollectingPublisher))

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.TickStop, outcome)
	mockRepo.AssertExpectations(t)
}

func TestTickDroneCommandHandler_Handle_StaleWriteRetriesNextTick(t *testing.T) {
	// Arrange
	target, err := kernel.NewGeoPoint(10.8231, 106.6297)
	require.NoError(t, err)
	d := flyingDrone(t, target)

	mockRepo := new(MockDroneRepository)
	mockRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	mockRepo.On("Update", mock.Anything, d).
		Return(errs.NewConflictError("drone was modified concurrently")).Once()

	handler := newTickHandler(mockRepo, new(MockOrderServiceClient), new(CollectingPublisher))

	// Act
	outcome, err := tickOnce(t, handler, d.ID())

	// Assert
	require.Error(t, err)
	assert.Equal(t, commands.TickContinue, outcome, "stale writes retry from stored state next tick")
	mockRepo.AssertExpectations(t)
}
