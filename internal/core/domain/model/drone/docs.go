// Package drone implements the drone aggregate for the fleet dispatch domain.
//
// The package contains the Drone aggregate root together with its supporting
// value objects:
//   - Status: the lifecycle state machine (available, assigned, flying,
//     delivering, returning, maintenance) with validated transitions
//   - Leg: a tagged route segment (pickup, delivery, or return home) with a
//     target coordinate and display label
//   - TrackPoint: one entry of the bounded trailing flight history
//
// The aggregate enforces the domain invariants: battery stays within
// [0, 100] and only rises while available or falls while moving, the
// destination leg exists exactly while the drone is in a moving status, the
// order reference exists exactly while an assignment is carried, and the
// flight history never exceeds its cap.
//
// Drones are never deleted. Completing the return leg resets the vehicle at
// its home location with a full battery and cycles it back into the
// available pool for the next assignment.
package drone
