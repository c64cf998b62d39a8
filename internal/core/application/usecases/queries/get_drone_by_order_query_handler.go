package queries

import (
	"context"
	"database/sql"
	"errors"

	"dronefleet/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetDroneByOrderQueryHandler finds the drone working an order.
type GetDroneByOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetDroneByOrderQueryHandler creates a handler for order-based lookups.
func NewGetDroneByOrderQueryHandler(db *gorm.DB) GetDroneByOrderQueryHandler {
	return GetDroneByOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns an ObjectNotFoundError when no drone
// is working the order.
func (h GetDroneByOrderQueryHandler) Handle(
	ctx context.Context,
	query GetDroneByOrderQuery,
) (DroneDetailResponse, error) {
	if err := query.Validate(); err != nil {
		return DroneDetailResponse{}, err
	}

	detail, err := scanDroneDetail(h.db.WithContext(ctx).Raw(
		droneDetailSelect+` WHERE order_id = ?`, query.OrderID().Bytes()))
	if errors.Is(err, sql.ErrNoRows) {
		return DroneDetailResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return DroneDetailResponse{}, err
	}

	history, err := GetDroneByIDQueryHandler{db: h.db}.loadFlightHistory(ctx, detail.ID)
	if err != nil {
		return DroneDetailResponse{}, err
	}
	detail.FlightHistory = history

	return detail, nil
}
