package queries

import (
	"context"
	"database/sql"
	"errors"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDroneByIDQueryHandler retrieves one drone's full detail view, including
// route legs and the trailing flight history.
type GetDroneByIDQueryHandler struct {
	db *gorm.DB
}

// NewGetDroneByIDQueryHandler creates a handler for single drone lookups.
func NewGetDroneByIDQueryHandler(db *gorm.DB) GetDroneByIDQueryHandler {
	return GetDroneByIDQueryHandler{db: db}
}

// Handle executes the lookup. Returns an ObjectNotFoundError when the drone
// does not exist.
func (h GetDroneByIDQueryHandler) Handle(
	ctx context.Context,
	query GetDroneByIDQuery,
) (DroneDetailResponse, error) {
	if err := query.Validate(); err != nil {
		return DroneDetailResponse{}, err
	}

	detail, err := scanDroneDetail(h.db.WithContext(ctx).Raw(
		droneDetailSelect+` WHERE id = ?`, query.DroneID().Bytes()))
	if errors.Is(err, sql.ErrNoRows) {
		return DroneDetailResponse{}, errs.NewObjectNotFoundError("drone", query.DroneID().String())
	}
	if err != nil {
		return DroneDetailResponse{}, err
	}

	history, err := h.loadFlightHistory(ctx, query.DroneID())
	if err != nil {
		return DroneDetailResponse{}, err
	}
	detail.FlightHistory = history

	return detail, nil
}

func (h GetDroneByIDQueryHandler) loadFlightHistory(
	ctx context.Context,
	droneID kernel.UUID,
) ([]TrackPointResponse, error) {
	history := make([]TrackPointResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT lat, lon, alt, recorded_at
		FROM drone_track_points
		WHERE drone_id = ?
		ORDER BY seq
	`, droneID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var lat, lon, alt float64
		var point TrackPointResponse
		if err = rows.Scan(&lat, &lon, &alt, &point.RecordedAt); err != nil {
			return nil, err
		}
		position, posErr := kernel.NewGeoPointWithAltitude(lat, lon, alt)
		if posErr != nil {
			return nil, posErr
		}
		point.Position = position
		history = append(history, point)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

// droneDetailSelect is the shared column list for detail lookups; keep the
// order in sync with scanDroneDetail.
const droneDetailSelect = `
	SELECT
		id,
		name,
		status,
		position_lat,
		position_lon,
		position_alt,
		battery,
		speed_kmh,
		position_updated_at,
		home_lat,
		home_lon,
		home_alt,
		dest_kind, dest_lat, dest_lon, dest_alt, dest_label,
		delivery_dest_kind, delivery_dest_lat, delivery_dest_lon, delivery_dest_alt, delivery_dest_label,
		start_kind, start_lat, start_lon, start_alt, start_label,
		order_id,
		assigned_at,
		estimated_arrival,
		order_notified
	FROM drones`

// scanDroneDetail maps one detail row. The caller appends the flight
// history separately.
func scanDroneDetail(tx *gorm.DB) (DroneDetailResponse, error) {
	rows, err := tx.Rows()
	if err != nil {
		return DroneDetailResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return DroneDetailResponse{}, err
		}
		return DroneDetailResponse{}, sql.ErrNoRows
	}

	var detail DroneDetailResponse
	var id uuid.UUID
	var posLat, posLon, posAlt float64
	var homeLat, homeLon, homeAlt float64
	var dest, deliveryDest, start rawLeg
	var orderID *uuid.UUID
	var assignedAt, estimatedArrival sql.NullTime

	if err = rows.Scan(
		&id,
		&detail.Name,
		&detail.Status,
		&posLat, &posLon, &posAlt,
		&detail.Battery,
		&detail.SpeedKmh,
		&detail.PositionUpdatedAt,
		&homeLat, &homeLon, &homeAlt,
		&dest.kind, &dest.lat, &dest.lon, &dest.alt, &dest.label,
		&deliveryDest.kind, &deliveryDest.lat, &deliveryDest.lon, &deliveryDest.alt, &deliveryDest.label,
		&start.kind, &start.lat, &start.lon, &start.alt, &start.label,
		&orderID,
		&assignedAt,
		&estimatedArrival,
		&detail.OrderNotified,
	); err != nil {
		return DroneDetailResponse{}, err
	}

	droneID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return DroneDetailResponse{}, err
	}
	detail.ID = droneID

	if detail.Position, err = kernel.NewGeoPointWithAltitude(posLat, posLon, posAlt); err != nil {
		return DroneDetailResponse{}, err
	}
	if detail.Home, err = kernel.NewGeoPointWithAltitude(homeLat, homeLon, homeAlt); err != nil {
		return DroneDetailResponse{}, err
	}

	if detail.Destination, err = dest.toResponse(); err != nil {
		return DroneDetailResponse{}, err
	}
	if detail.DeliveryDestination, err = deliveryDest.toResponse(); err != nil {
		return DroneDetailResponse{}, err
	}
	if detail.StartLocation, err = start.toResponse(); err != nil {
		return DroneDetailResponse{}, err
	}

	if detail.OrderID, err = nullableUUID(orderID); err != nil {
		return DroneDetailResponse{}, err
	}
	detail.AssignedAt = nullableTime(assignedAt)
	detail.EstimatedArrival = nullableTime(estimatedArrival)

	return detail, nil
}

// rawLeg holds the nullable leg columns before conversion.
type rawLeg struct {
	kind  sql.NullString
	lat   sql.NullFloat64
	lon   sql.NullFloat64
	alt   sql.NullFloat64
	label sql.NullString
}

func (l rawLeg) toResponse() (*RouteLegResponse, error) {
	if !l.kind.Valid {
		return nil, nil //nolint:nilnil //absent leg
	}

	target, err := kernel.NewGeoPointWithAltitude(l.lat.Float64, l.lon.Float64, l.alt.Float64)
	if err != nil {
		return nil, err
	}

	return &RouteLegResponse{
		Kind:   l.kind.String,
		Target: target,
		Label:  l.label.String,
	}, nil
}
