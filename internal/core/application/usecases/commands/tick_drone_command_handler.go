package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/ports"
	"dronefleet/internal/pkg/errs"
	"dronefleet/internal/telemetry"
)

// TickOutcome tells the tick loop whether the drone still needs ticking.
type TickOutcome int

const (
	// TickContinue keeps the loop running for the next step.
	TickContinue TickOutcome = iota
	// TickStop ends the loop: the drone reached a resting state or vanished.
	TickStop
)

// TickSettings hold the simulation step parameters.
type TickSettings struct {
	// Interval is the wall-clock duration of one step.
	Interval time.Duration
	// AccelerationFactor compresses simulated travel time: each step covers
	// AccelerationFactor times the distance real flight would.
	AccelerationFactor float64
	// ArrivalThresholdKm is the distance below which a waypoint counts as
	// reached.
	ArrivalThresholdKm float64
	// Dwell is how long the drone hovers at the destination before heading
	// home.
	Dwell time.Duration
}

// DefaultTickSettings returns the stock simulation parameters.
func DefaultTickSettings() TickSettings {
	return TickSettings{
		Interval:           time.Second,
		AccelerationFactor: 50,
		ArrivalThresholdKm: 0.1,
		Dwell:              3 * time.Second,
	}
}

// TickDroneCommandHandler runs one simulation step for one drone. It is the
// movement engine: idle drones trickle-charge, flying drones advance along
// the current leg, arrivals trigger leg transitions, and the hand-off dwell
// notifies the order subsystem exactly once before the return trip starts.
type TickDroneCommandHandler struct {
	repo      ports.DroneRepository
	orders    ports.OrderServiceClient
	publisher telemetry.Publisher
	settings  TickSettings
	logger    *slog.Logger
}

// NewTickDroneCommandHandler creates the movement engine.
func NewTickDroneCommandHandler(
	repo ports.DroneRepository,
	orders ports.OrderServiceClient,
	publisher telemetry.Publisher,
	settings TickSettings,
	logger *slog.Logger,
) TickDroneCommandHandler {
	return TickDroneCommandHandler{
		repo:      repo,
		orders:    orders,
		publisher: publisher,
		settings:  settings,
		logger:    logger.With("component", "simulation"),
	}
}

// Handle advances the drone by one step and reports whether the loop should
// keep running. A missing drone stops the loop without error; transient
// persistence failures keep the loop alive so the next step can retry from
// the stored state.
func (h TickDroneCommandHandler) Handle(ctx context.Context, cmd TickDroneCommand) (TickOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return TickStop, err
	}

	d, err := h.repo.Get(ctx, cmd.DroneID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return TickStop, nil
	}
	if err != nil {
		return TickContinue, err
	}

	now := time.Now().UTC()

	if d.Status() == drone.Available {
		return h.tickCharging(ctx, d)
	}

	if !d.Status().IsActive() {
		return TickStop, nil
	}

	leg := d.Destination()
	if leg == nil {
		// An active drone always has a destination; Validate enforces it on
		// every mutation, so this state can only come from a torn record.
		h.logger.WarnContext(ctx, "active drone without destination, stopping loop",
			"drone_id", d.ID().String())
		return TickStop, nil
	}

	if d.Status() == drone.Delivering {
		return h.tickDwell(ctx, d, now)
	}

	arrived, err := d.Position().IsWithinKm(leg.Target(), h.settings.ArrivalThresholdKm)
	if err != nil {
		return TickContinue, err
	}
	if arrived {
		return h.tickArrival(ctx, d, now)
	}

	return h.tickMove(ctx, d, leg, now)
}

// tickCharging raises the battery one step and emits a telemetry event on
// every crossed ten-percent mark. A full battery ends the loop.
func (h TickDroneCommandHandler) tickCharging(ctx context.Context, d *drone.Drone) (TickOutcome, error) {
	before := d.Battery()
	if before >= drone.MaxBattery {
		return TickStop, nil
	}

	level, err := d.Charge(drone.BatteryChargeStep)
	if err != nil {
		return TickStop, err
	}

	if err = h.repo.Update(ctx, d); err != nil {
		return TickContinue, err
	}

	if int(before/10) != int(level/10) || level >= drone.MaxBattery {
		h.publisher.Publish(eventFromDrone(d, telemetry.EventTypeBattery, "charging"))
	}

	if level >= drone.MaxBattery {
		h.logger.DebugContext(ctx, "drone fully charged", "drone_id", d.ID().String())
		return TickStop, nil
	}
	return TickContinue, nil
}

// tickDwell waits out the hand-off pause at the delivery point, fires the
// one-shot fulfilled notification, and turns the drone towards home.
func (h TickDroneCommandHandler) tickDwell(ctx context.Context, d *drone.Drone, now time.Time) (TickOutcome, error) {
	// The dwell clock runs from the delivery arrival, not from the last
	// position write, so a manual location override cannot restart it.
	dwellStart := d.PositionUpdatedAt()
	if d.DwellStartedAt() != nil {
		dwellStart = *d.DwellStartedAt()
	}
	if now.Sub(dwellStart) < h.settings.Dwell {
		return TickContinue, nil
	}

	if d.OrderID() != nil && d.MarkOrderNotified() {
		if err := h.orders.MarkFulfilled(ctx, *d.OrderID()); err != nil {
			// The simulation never stalls on the order subsystem; the flag
			// stays set so the notification fires at most once.
			h.logger.ErrorContext(ctx, "order fulfilled notification failed",
				"drone_id", d.ID().String(),
				"order_id", d.OrderID().String(),
				"error", err)
		}
	}

	if err := d.BeginReturn(now); err != nil {
		return TickStop, err
	}
	if err := h.repo.Update(ctx, d); err != nil {
		return TickContinue, err
	}

	h.publisher.Publish(eventFromDrone(d, telemetry.EventTypeStatus, "returning home"))
	return TickContinue, nil
}

// tickArrival handles a waypoint within the arrival threshold. Flying drones
// either switch to the retained delivery leg or start the hand-off dwell;
// returning drones land at home and rejoin the available pool.
func (h TickDroneCommandHandler) tickArrival(ctx context.Context, d *drone.Drone, now time.Time) (TickOutcome, error) {
	switch {
	case d.Status() == drone.Flying && d.DeliveryDestination() != nil:
		if err := d.SwitchToDeliveryLeg(now); err != nil {
			return TickStop, err
		}
		if err := h.repo.Update(ctx, d); err != nil {
			return TickContinue, err
		}
		h.publisher.Publish(eventFromDrone(d, telemetry.EventTypeStatus, "pickup complete"))
		return TickContinue, nil

	case d.Status() == drone.Flying:
		if err := d.BeginDelivering(now); err != nil {
			return TickStop, err
		}
		if err := h.repo.Update(ctx, d); err != nil {
			return TickContinue, err
		}
		h.publisher.Publish(eventFromDrone(d, telemetry.EventTypeStatus, "delivering"))
		return TickContinue, nil

	case d.Status() == drone.Returning:
		if err := d.CompleteReturn(now); err != nil {
			return TickStop, err
		}
		if err := h.repo.Update(ctx, d); err != nil {
			return TickContinue, err
		}
		h.publisher.Publish(eventFromDrone(d, telemetry.EventTypeStatus, "returned home"))
		h.logger.InfoContext(ctx, "drone returned home", "drone_id", d.ID().String())
		return TickStop, nil

	default:
		return TickStop, errs.NewConflictError("drone cannot arrive in its current status")
	}
}

// tickMove advances the drone one accelerated step along the great circle
// towards the current leg target, never overshooting it.
func (h TickDroneCommandHandler) tickMove(
	ctx context.Context,
	d *drone.Drone,
	leg *drone.Leg,
	now time.Time,
) (TickOutcome, error) {
	distanceKm, err := d.Position().DistanceKmTo(leg.Target())
	if err != nil {
		return TickContinue, err
	}

	bearing, err := d.Position().BearingTo(leg.Target())
	if err != nil {
		return TickContinue, err
	}

	stepKm := d.SpeedKmh() * h.settings.AccelerationFactor * h.settings.Interval.Seconds() / 3600
	if stepKm > distanceKm {
		stepKm = distanceKm
	}

	next, err := d.Position().Step(bearing, stepKm)
	if err != nil {
		return TickContinue, err
	}
	next = next.WithAltitude(drone.CruiseAltitudeMeters)

	if err = d.MoveTo(next, now); err != nil {
		return TickStop, err
	}
	if err = h.repo.Update(ctx, d); err != nil {
		return TickContinue, err
	}

	h.publisher.Publish(eventFromDrone(d, telemetry.EventTypePosition, ""))
	return TickContinue, nil
}
