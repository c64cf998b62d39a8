// Package services provides domain services that implement business logic
// spanning multiple domain objects in the fleet dispatch system.
//
// The package includes:
//   - RoutePlanner: computes route distances and wall-clock arrival estimates
//     from a drone's position, cruise speed, and route waypoints
//
// Domain services hold logic that does not naturally belong to a single
// aggregate root, following Domain-Driven Design principles.
package services
