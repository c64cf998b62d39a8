package ports

import (
	"context"

	"dronefleet/internal/core/domain/model/kernel"
)

// ResolvedAddress is the result of a geocoding lookup: the coordinate plus
// the address text it was resolved from.
type ResolvedAddress struct {
	Point   kernel.GeoPoint
	Address string
}

// Geocoder resolves address text to coordinates and back.
// Implementations fail soft: when the lookup fails or returns nothing they
// fall back to a deterministic pseudo-coordinate, so Resolve and Reverse
// never surface an error to the caller.
type Geocoder interface {
	// Resolve turns address text into a coordinate. Repeated calls with
	// identical text return identical coordinates, even on the fallback path.
	Resolve(ctx context.Context, address string) ResolvedAddress

	// Reverse turns a coordinate into address text, falling back to a
	// fixed-precision numeric string.
	Reverse(ctx context.Context, point kernel.GeoPoint) string
}

// OrderServiceClient is the narrow view of the order subsystem this module
// consumes.
type OrderServiceClient interface {
	// GetDeliveryAddress fetches the delivery address recorded on an order.
	// Returns an ObjectNotFoundError when the order has no address.
	GetDeliveryAddress(ctx context.Context, orderID kernel.UUID) (string, error)

	// MarkFulfilled flags the order as fulfilled. Callers treat failures as
	// best-effort: they are logged and never block a state transition.
	MarkFulfilled(ctx context.Context, orderID kernel.UUID) error
}
