// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: constructor
// validation, aggregate mutation, optimistic persistence, and telemetry
// publication.
package commands
