package drone

import (
	"fmt"

	"dronefleet/internal/pkg/errs"
)

// Status represents the lifecycle state of a drone.
// It implements a state machine with defined transitions so vehicles follow
// the dispatch workflow.
//
// State transitions:
//
//	available ──assign──> flying ──arrive final──> delivering
//	    ^                   │  ^                        │
//	    │                   └──┘ (leg switch            │ dwell elapses
//	    │                         at pickup)            v
//	    └────────── arrive home ─────────────────── returning
//
//	maintenance is entered and left only through manual overrides.
//
// Status validates state transitions and provides string representations for
// persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Available means the drone is idle at (or heading from) the depot pool,
	// charging if needed, and can be assigned to an order.
	Available

	// Assigned means an order has been attached but the flight has not
	// started. Reachable only through manual overrides; dispatch moves
	// straight to Flying.
	Assigned

	// Flying means the drone is en route to the current leg's target,
	// either the pickup point or the final destination.
	Flying

	// Delivering means the drone has reached the final destination and is
	// dwelling there for hand-off before the return leg.
	Delivering

	// Returning means the drone is en route back to its home location.
	Returning

	// Maintenance takes the drone out of the pool. Entered and exited only
	// via manual status overrides.
	Maintenance
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "unknown",
		Available:   "available",
		Assigned:    "assigned",
		Flying:      "flying",
		Delivering:  "delivering",
		Returning:   "returning",
		Maintenance: "maintenance",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Available:   "available",
		Assigned:    "assigned",
		Flying:      "flying",
		Delivering:  "delivering",
		Returning:   "returning",
		Maintenance: "maintenance",
	}
}

// StatusFromString parses a status from its string form, as received from the
// API or read back from persistence.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name of the status, or "unknown" for invalid
// values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsActive reports whether the drone is in a moving state.
// Exactly these states carry a non-nil destination leg.
func (s Status) IsActive() bool {
	return s == Flying || s == Delivering || s == Returning
}

// CarriesOrder reports whether the status requires a non-nil order reference.
func (s Status) CarriesOrder() bool {
	return s == Assigned || s.IsActive()
}

// ValidateAssign checks if the status allows dispatching without performing
// the transition. Only Available drones can be assigned; anything else is a
// Conflict per the dispatch contract.
func (s Status) ValidateAssign() error {
	if s != Available {
		return errs.NewConflictErrorWithCause(
			"drone is not available",
			fmt.Errorf("%s is not a valid status to assign", s.String()),
		)
	}
	return nil
}

// Assign transitions the status to Flying.
//
// Valid transitions:
//   - Available -> Flying (dispatch)
func (s Status) Assign() (Status, error) {
	if err := s.ValidateAssign(); err != nil {
		return 0, err
	}

	return Flying, nil
}

// BeginDelivering transitions the status to Delivering on arrival at the
// final destination.
//
// Valid transitions:
//   - Flying -> Delivering
func (s Status) BeginDelivering() (Status, error) {
	if s != Flying {
		return 0, errs.NewConflictErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to begin delivering", s.String()),
		)
	}

	return Delivering, nil
}

// BeginReturn transitions the status to Returning after the dwell at the
// final destination elapses.
//
// Valid transitions:
//   - Delivering -> Returning
func (s Status) BeginReturn() (Status, error) {
	if s != Delivering {
		return 0, errs.NewConflictErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to begin the return leg", s.String()),
		)
	}

	return Returning, nil
}

// Release transitions the status back to Available on arrival at home.
//
// Valid transitions:
//   - Returning -> Available
func (s Status) Release() (Status, error) {
	if s != Returning {
		return 0, errs.NewConflictErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to release", s.String()),
		)
	}

	return Available, nil
}
