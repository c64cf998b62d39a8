package queries

import (
	"context"
	"database/sql"
	"time"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableDronesQueryHandler retrieves the available pool from the
// registry. Uses direct SQL for optimal read performance in the CQRS
// pattern.
type GetAvailableDronesQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableDronesQueryHandler creates a handler for available pool
// queries. Requires a GORM database connection for query execution.
func NewGetAvailableDronesQueryHandler(db *gorm.DB) GetAvailableDronesQueryHandler {
	return GetAvailableDronesQueryHandler{db: db}
}

// Handle executes the query to retrieve every available drone, sorted by
// name. Converts database types to domain types for consistency.
func (h GetAvailableDronesQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableDronesQuery,
) ([]DroneSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drones := make([]DroneSummaryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			status,
			position_lat,
			position_lon,
			position_alt,
			battery,
			speed_kmh
		FROM drones
		WHERE status = ?
		ORDER BY name
	`, drone.Available.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		summary, scanErr := scanDroneSummary(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		drones = append(drones, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drones, nil
}

// scanDroneSummary reads one summary row in the column order shared by the
// list queries: id, name, status, position, battery, speed.
func scanDroneSummary(rows *sql.Rows) (DroneSummaryResponse, error) {
	var summary DroneSummaryResponse
	var id uuid.UUID
	var lat, lon, alt float64

	if err := rows.Scan(
		&id,
		&summary.Name,
		&summary.Status,
		&lat,
		&lon,
		&alt,
		&summary.Battery,
		&summary.SpeedKmh,
	); err != nil {
		return DroneSummaryResponse{}, err
	}

	droneID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return DroneSummaryResponse{}, err
	}
	summary.ID = droneID

	position, err := kernel.NewGeoPointWithAltitude(lat, lon, alt)
	if err != nil {
		return DroneSummaryResponse{}, err
	}
	summary.Position = position

	return summary, nil
}

// nullableUUID converts an optional database UUID to a domain UUID.
func nullableUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil //absent value
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// nullableTime converts an optional database timestamp.
func nullableTime(raw sql.NullTime) *time.Time {
	if !raw.Valid {
		return nil
	}
	t := raw.Time
	return &t
}
