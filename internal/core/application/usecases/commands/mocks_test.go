package commands_test

import (
	"context"
	"sync"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/core/ports"
	"dronefleet/internal/telemetry"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing.
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*drone.Drone), args.Error(1)
}

func (m *MockDroneRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*drone.Drone, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*drone.Drone), args.Error(1)
}

func (m *MockDroneRepository) GetAllAvailable(ctx context.Context) ([]*drone.Drone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*drone.Drone), args.Error(1)
}

func (m *MockDroneRepository) GetAllActive(ctx context.Context) ([]*drone.Drone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*drone.Drone), args.Error(1)
}

type MockOrderServiceClient struct {
	mock.Mock
}

func (m *MockOrderServiceClient) GetDeliveryAddress(ctx context.Context, orderID kernel.UUID) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderServiceClient) MarkFulfilled(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Resolve(ctx context.Context, address string) ports.ResolvedAddress {
	args := m.Called(ctx, address)
	return args.Get(0).(ports.ResolvedAddress)
}

func (m *MockGeocoder) Reverse(ctx context.Context, point kernel.GeoPoint) string {
	args := m.Called(ctx, point)
	return args.String(0)
}

type MockSimulationControl struct {
	mock.Mock
}

func (m *MockSimulationControl) Ensure(droneID kernel.UUID) {
	m.Called(droneID)
}

func (m *MockSimulationControl) Stop(droneID kernel.UUID) {
	m.Called(droneID)
}

// CollectingPublisher records every published telemetry event in order.
type CollectingPublisher struct {
	mu     sync.Mutex
	events []telemetry.Event
}

func (p *CollectingPublisher) Publish(event telemetry.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *CollectingPublisher) Events() []telemetry.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]telemetry.Event, len(p.events))
	copy(out, p.events)
	return out
}
