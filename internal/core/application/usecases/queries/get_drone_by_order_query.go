package queries

import (
	"errors"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/guard"
)

var ErrGetDroneByOrderQueryIsNotConstructed = errors.New(
	"GetDroneByOrderQuery must be created via NewGetDroneByOrderQuery constructor",
)

// GetDroneByOrderQuery finds the drone actively working a given order.
// This is how order-tracking clients discover which vehicle to follow.
type GetDroneByOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDroneByOrderQuery creates a lookup by order.
func NewGetDroneByOrderQuery(orderID kernel.UUID) (GetDroneByOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetDroneByOrderQuery{}, err
	}

	return GetDroneByOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDroneByOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetDroneByOrderQueryIsNotConstructed)
}

// OrderID returns the order being tracked.
func (q GetDroneByOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}
