package drone

import (
	"errors"
	"fmt"
	"time"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"
	"dronefleet/internal/pkg/guard"
)

const (
	// MinBattery is the lowest battery level, in percent.
	MinBattery = 0.0
	// MaxBattery is the full battery level, in percent.
	MaxBattery = 100.0

	// BatteryChargeStep is the battery gained per charging tick while the
	// drone sits available at the depot.
	BatteryChargeStep = 1.0
	// BatteryDrainPerTick is the battery spent per moving tick. The drain is
	// time-proportional by design: a fixed fraction per tick regardless of
	// the distance actually covered in that tick.
	BatteryDrainPerTick = 0.05

	// FlightHistoryCap bounds the trailing flight history; the oldest track
	// point is evicted first.
	FlightHistoryCap = 50

	// DefaultSpeedKmh is the cruise speed used when registration does not
	// specify one.
	DefaultSpeedKmh = 20.0

	// CruiseAltitudeMeters is the altitude assigned to positions computed
	// while airborne.
	CruiseAltitudeMeters = 60.0
)

// Domain errors for drone operations.
var (
	// ErrNameIsRequired is returned when attempting to create a drone without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrSpeedIsRequired is returned when attempting to create a drone with invalid speed (≤0).
	ErrSpeedIsRequired = errs.NewValueIsRequiredError("speed")
	// ErrDroneIsNotConstructed is returned when using an improperly initialized Drone.
	ErrDroneIsNotConstructed = errors.New("Drone must be created via NewDrone constructor")
	// ErrNotMoving is returned when a movement operation targets a drone that
	// is not in a moving status.
	ErrNotMoving = errors.New("drone is not in a moving status")
	// ErrNoDestination is returned when a movement operation finds no
	// destination leg on an active drone.
	ErrNoDestination = errors.New("drone has no destination leg")
)

// TrackPoint is one recorded position in the drone's trailing flight history.
type TrackPoint struct {
	Position kernel.GeoPoint
	At       time.Time
}

// Drone represents an autonomous delivery vehicle in the fleet.
// It is an aggregate root that manages vehicle identity, flight state,
// battery, and route legs.
//
// Key responsibilities:
//   - Managing vehicle identity (ID, name, home location, cruise speed)
//   - Enforcing the lifecycle state machine across dispatch, flight legs,
//     delivery dwell, return, and release back to the pool
//   - Tracking battery (drains while moving, charges while available)
//   - Keeping a bounded trailing flight history
//
// Business rules:
//   - Exactly one active drone per order (enforced by the registry)
//   - Battery stays in [MinBattery, MaxBattery]; it only rises while
//     available and only falls while actively moving
//   - The destination leg is present iff the drone is flying, delivering,
//     or returning; the order reference is present iff the drone carries an
//     assignment
//   - A drone is never deleted; completing the return leg cycles it back to
//     available for reuse
type Drone struct {
	id   kernel.UUID
	name string

	status            Status
	position          kernel.GeoPoint
	positionUpdatedAt time.Time

	destination         *Leg
	deliveryDestination *Leg
	startLocation       *Leg
	homeLocation        kernel.GeoPoint

	speedKmh float64
	battery  float64
	history  []TrackPoint

	orderID          *kernel.UUID
	assignedAt       *time.Time
	estimatedArrival *time.Time
	dwellStartedAt   *time.Time
	orderNotified    bool

	version int64

	guard guard.ConstructorGuard
}

// NewDrone registers a new drone parked at its home location, fully charged
// and available. Speed is in km/h and must be positive.
func NewDrone(id kernel.UUID, name string, home kernel.GeoPoint, speedKmh float64) (*Drone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}
	if speedKmh <= 0 {
		return nil, ErrSpeedIsRequired
	}
	if err := home.Validate(); err != nil {
		return nil, err
	}

	return &Drone{
		id:                id,
		name:              name,
		status:            Available,
		position:          home,
		positionUpdatedAt: time.Now().UTC(),
		homeLocation:      home,
		speedKmh:          speedKmh,
		battery:           MaxBattery,
		history:           make([]TrackPoint, 0, FlightHistoryCap),
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// RestoreDroneParams carries the persisted state needed to reconstruct a
// Drone aggregate from storage.
type RestoreDroneParams struct {
	ID                  kernel.UUID
	Name                string
	Status              Status
	Position            kernel.GeoPoint
	PositionUpdatedAt   time.Time
	Destination         *Leg
	DeliveryDestination *Leg
	StartLocation       *Leg
	HomeLocation        kernel.GeoPoint
	SpeedKmh            float64
	Battery             float64
	History             []TrackPoint
	OrderID             *kernel.UUID
	AssignedAt          *time.Time
	EstimatedArrival    *time.Time
	DwellStartedAt      *time.Time
	OrderNotified       bool
	Version             int64
}

// RestoreDrone reconstructs a Drone from persisted state.
// Used by repositories; the restored aggregate is validated before return.
func RestoreDrone(params RestoreDroneParams) (*Drone, error) {
	d := &Drone{
		id:                  params.ID,
		name:                params.Name,
		status:              params.Status,
		position:            params.Position,
		positionUpdatedAt:   params.PositionUpdatedAt,
		destination:         params.Destination,
		deliveryDestination: params.DeliveryDestination,
		startLocation:       params.StartLocation,
		homeLocation:        params.HomeLocation,
		speedKmh:            params.SpeedKmh,
		battery:             params.Battery,
		history:             params.History,
		orderID:             params.OrderID,
		assignedAt:          params.AssignedAt,
		estimatedArrival:    params.EstimatedArrival,
		dwellStartedAt:      params.DwellStartedAt,
		orderNotified:       params.OrderNotified,
		version:             params.Version,
		guard:               guard.NewConstructorGuard(),
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ID returns the drone's unique identifier.
func (d *Drone) ID() kernel.UUID {
	return d.id
}

// Name returns the drone's display name.
func (d *Drone) Name() string {
	return d.name
}

// Status returns the drone's lifecycle status.
func (d *Drone) Status() Status {
	return d.status
}

// Position returns the drone's current position.
func (d *Drone) Position() kernel.GeoPoint {
	return d.position
}

// PositionUpdatedAt returns when the position was last written.
func (d *Drone) PositionUpdatedAt() time.Time {
	return d.positionUpdatedAt
}

// Destination returns the current route leg, or nil when the drone is idle.
func (d *Drone) Destination() *Leg {
	return d.destination
}

// DeliveryDestination returns the final delivery leg retained while the drone
// is still en route to the pickup point, or nil.
func (d *Drone) DeliveryDestination() *Leg {
	return d.deliveryDestination
}

// StartLocation returns the pickup leg recorded at assignment, or nil.
func (d *Drone) StartLocation() *Leg {
	return d.startLocation
}

// HomeLocation returns the drone's depot position.
func (d *Drone) HomeLocation() kernel.GeoPoint {
	return d.homeLocation
}

// SpeedKmh returns the cruise speed in km/h.
func (d *Drone) SpeedKmh() float64 {
	return d.speedKmh
}

// Battery returns the battery level in percent.
func (d *Drone) Battery() float64 {
	return d.battery
}

// FlightHistory returns a copy of the bounded trailing flight history,
// oldest first.
func (d *Drone) FlightHistory() []TrackPoint {
	history := make([]TrackPoint, len(d.history))
	copy(history, d.history)
	return history
}

// OrderID returns the assigned order, or nil when the drone carries none.
func (d *Drone) OrderID() *kernel.UUID {
	return d.orderID
}

// AssignedAt returns when the current order was assigned, or nil.
func (d *Drone) AssignedAt() *time.Time {
	return d.assignedAt
}

// EstimatedArrival returns the computed ETA for the current leg, or nil.
func (d *Drone) EstimatedArrival() *time.Time {
	return d.estimatedArrival
}

// DwellStartedAt returns when the delivery hand-off pause began, or nil
// outside the dwell. Manual position overrides do not touch it.
func (d *Drone) DwellStartedAt() *time.Time {
	return d.dwellStartedAt
}

// OrderNotified reports whether the fulfilled notification for the current
// order has already been sent.
func (d *Drone) OrderNotified() bool {
	return d.orderNotified
}

// Version returns the optimistic-concurrency version loaded from storage.
func (d *Drone) Version() int64 {
	return d.version
}

// Assign dispatches the drone onto an order. The destination is the first
// route leg; when the route has a separate pickup stop, destination is the
// pickup leg and finalDestination holds the delivery leg that the drone
// switches to on pickup arrival.
//
// Fails with a Conflict error when the drone is not available.
func (d *Drone) Assign(
	orderID kernel.UUID,
	destination Leg,
	finalDestination *Leg,
	eta time.Time,
	now time.Time,
) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := destination.Validate(); err != nil {
		return err
	}
	if finalDestination != nil {
		if err := finalDestination.Validate(); err != nil {
			return err
		}
	}

	newStatus, err := d.status.Assign()
	if err != nil {
		return err
	}

	start := destination
	if destination.Kind() != LegKindPickup {
		// Single-leg route: the flight starts from wherever the drone is.
		start, err = NewLeg(LegKindPickup, d.position, "")
		if err != nil {
			return err
		}
	}

	d.status = newStatus
	d.orderID = &orderID
	d.destination = &destination
	d.deliveryDestination = finalDestination
	d.startLocation = &start
	d.assignedAt = &now
	d.estimatedArrival = &eta
	d.orderNotified = false

	return nil
}

// MoveTo advances the drone to a new in-flight position, records it in the
// trailing history, and drains the battery by the fixed per-tick fraction.
// Only drones in a moving status can move.
func (d *Drone) MoveTo(position kernel.GeoPoint, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if !d.status.IsActive() {
		return ErrNotMoving
	}
	if err := position.Validate(); err != nil {
		return err
	}

	d.position = position
	d.positionUpdatedAt = now
	d.appendTrack(position, now)

	d.battery -= BatteryDrainPerTick
	if d.battery < MinBattery {
		d.battery = MinBattery
	}

	return nil
}

// OverrideLocation manually repositions the drone regardless of status.
// Used by the manual setLocation operation; no battery drain applies.
func (d *Drone) OverrideLocation(position kernel.GeoPoint, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := position.Validate(); err != nil {
		return err
	}

	d.position = position
	d.positionUpdatedAt = now
	d.appendTrack(position, now)
	return nil
}

// Charge raises the battery by step while the drone is available, clamped at
// MaxBattery, and returns the new level. Battery can only rise while idle.
func (d *Drone) Charge(step float64) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if d.status != Available {
		return 0, errs.NewConflictErrorWithCause(
			"drone can only charge while available",
			fmt.Errorf("status is %s", d.status))
	}

	d.battery += step
	if d.battery > MaxBattery {
		d.battery = MaxBattery
	}
	return d.battery, nil
}

// SwitchToDeliveryLeg handles arrival at the pickup point of a two-leg route:
// the position snaps to the pickup coordinates, the retained delivery leg
// becomes the active destination, and the drone keeps flying. This is not a
// final arrival.
func (d *Drone) SwitchToDeliveryLeg(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status != Flying {
		return errs.NewConflictErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to switch legs", d.status))
	}
	if d.destination == nil || d.deliveryDestination == nil {
		return ErrNoDestination
	}

	d.position = d.destination.Target().WithAltitude(d.position.Altitude())
	d.positionUpdatedAt = now
	d.appendTrack(d.position, now)

	d.destination = d.deliveryDestination
	d.deliveryDestination = nil

	return nil
}

// BeginDelivering handles arrival at the true final destination: the position
// snaps to the destination target and the drone enters its hand-off dwell.
func (d *Drone) BeginDelivering(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.destination == nil {
		return ErrNoDestination
	}

	newStatus, err := d.status.BeginDelivering()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.position = d.destination.Target()
	d.positionUpdatedAt = now
	d.appendTrack(d.position, now)

	dwellStart := now
	d.dwellStartedAt = &dwellStart

	return nil
}

// BeginReturn starts the return leg towards home after the dwell elapses.
func (d *Drone) BeginReturn(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.BeginReturn()
	if err != nil {
		return err
	}

	returnLeg, err := NewLeg(LegKindReturnHome, d.homeLocation, "home")
	if err != nil {
		return err
	}

	d.status = newStatus
	d.destination = &returnLeg
	d.positionUpdatedAt = now
	d.dwellStartedAt = nil

	return nil
}

// CompleteReturn handles arrival back home: the drone snaps to its home
// coordinates, recharges to full, sheds every trace of the finished
// assignment, and rejoins the available pool.
func (d *Drone) CompleteReturn(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.Release()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.position = d.homeLocation
	d.positionUpdatedAt = now
	d.battery = MaxBattery
	d.clearAssignment()

	return nil
}

// MarkOrderNotified flips the one-shot fulfilled-notification flag.
// Returns true on the first call for the current assignment and false when
// the notification was already recorded, so downstream alerts never repeat.
func (d *Drone) MarkOrderNotified() bool {
	if d.orderNotified {
		return false
	}
	d.orderNotified = true
	return true
}

// OverrideStatus manually forces a lifecycle status, bypassing the automatic
// state machine. Maintenance and available are reachable from anywhere;
// moving states are only accepted when the drone already carries the order
// and destination they require.
func (d *Drone) OverrideStatus(status Status) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	switch status {
	case Maintenance:
		d.clearAssignment()
	case Available:
		// Battery level is kept; only a completed return recharges.
		d.clearAssignment()
	case Assigned:
		if d.orderID == nil {
			return errs.NewConflictError("cannot mark assigned without an order")
		}
		// The order stays attached, but assigned drones carry no route legs;
		// a later dispatch or override plans them again.
		d.destination = nil
		d.deliveryDestination = nil
		d.startLocation = nil
		d.estimatedArrival = nil
	case Flying, Delivering, Returning:
		if d.orderID == nil || d.destination == nil {
			return errs.NewConflictError("cannot enter a moving status without an order and destination")
		}
	case Unknown:
		return errs.NewValueIsInvalidError("status")
	}

	d.status = status
	return nil
}

// Validate checks the aggregate's invariants.
func (d *Drone) Validate() error {
	if d == nil {
		return ErrDroneIsNotConstructed
	}
	if err := d.guard.Validate(ErrDroneIsNotConstructed); err != nil {
		return err
	}
	if err := d.id.Validate(); err != nil {
		return err
	}
	if d.name == "" {
		return ErrNameIsRequired
	}
	if d.speedKmh <= 0 {
		return ErrSpeedIsRequired
	}
	if err := d.status.Validate(); err != nil {
		return err
	}
	if d.battery < MinBattery || d.battery > MaxBattery {
		return errs.NewValueIsOutOfRangeError("battery", d.battery, MinBattery, MaxBattery)
	}
	if len(d.history) > FlightHistoryCap {
		return errs.NewValueIsOutOfRangeError("flight history", len(d.history), 0, FlightHistoryCap)
	}

	// The destination leg exists exactly in moving statuses, and the order
	// reference exists exactly while an assignment is carried.
	if d.status.IsActive() && d.destination == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"destination", fmt.Errorf("status %s requires a destination leg", d.status))
	}
	if !d.status.IsActive() && d.destination != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"destination", fmt.Errorf("status %s must not carry a destination leg", d.status))
	}
	if d.status.CarriesOrder() && d.orderID == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"orderId", fmt.Errorf("status %s requires an order", d.status))
	}
	if !d.status.CarriesOrder() && d.orderID != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"orderId", fmt.Errorf("status %s must not carry an order", d.status))
	}

	return nil
}

// clearAssignment removes every trace of the current order.
func (d *Drone) clearAssignment() {
	d.orderID = nil
	d.destination = nil
	d.deliveryDestination = nil
	d.startLocation = nil
	d.assignedAt = nil
	d.estimatedArrival = nil
	d.dwellStartedAt = nil
	d.orderNotified = false
}

// appendTrack records a position in the trailing history, evicting the
// oldest point once the cap is reached.
func (d *Drone) appendTrack(position kernel.GeoPoint, at time.Time) {
	d.history = append(d.history, TrackPoint{Position: position, At: at})
	if len(d.history) > FlightHistoryCap {
		d.history = d.history[1:]
	}
}
