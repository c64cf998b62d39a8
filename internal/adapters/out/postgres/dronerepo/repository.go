package dronerepo

import (
	"context"
	"errors"
	"fmt"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDroneRepository implements DroneRepository using GORM.
type GormDroneRepository struct {
	db *gorm.DB
}

// NewGormDroneRepository creates a new GORM drone repository.
func NewGormDroneRepository(db *gorm.DB) *GormDroneRepository {
	return &GormDroneRepository{db: db}
}

// Add saves a newly registered drone to the database.
func (r *GormDroneRepository) Add(ctx context.Context, aggregate *drone.Drone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	return nil
}

// Update saves an existing drone using optimistic concurrency. The write
// only lands when the stored version still equals the version the aggregate
// was loaded with; a stale write returns a Conflict error so the caller can
// reload and retry.
func (r *GormDroneRepository) Update(ctx context.Context, aggregate *drone.Drone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loadedVersion := dto.Version
	dto.Version = loadedVersion + 1

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&DroneDTO{}).
			Where("id = ? AND version = ?", dto.ID, loadedVersion).
			Select("*").
			Omit("TrackPoints").
			Updates(dto)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewConflictErrorWithCause(
				"drone was modified concurrently",
				fmt.Errorf("drone %s stale at version %d", aggregate.ID(), loadedVersion))
		}

		// The trailing history is small and capped, replacing it wholesale is
		// simpler than diffing.
		if err := tx.Where("drone_id = ?", dto.ID).Delete(&TrackPointDTO{}).Error; err != nil {
			return err
		}
		if len(dto.TrackPoints) > 0 {
			if err := tx.Create(&dto.TrackPoints).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Get retrieves a drone by ID.
func (r *GormDroneRepository) Get(ctx context.Context, id kernel.UUID) (*drone.Drone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DroneDTO
	if err := r.db.WithContext(ctx).
		Preload("TrackPoints", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("drone", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves the drone actively working the given order.
func (r *GormDroneRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*drone.Drone, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto DroneDTO
	if err := r.db.WithContext(ctx).
		Preload("TrackPoints", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves every drone in the available pool.
func (r *GormDroneRepository) GetAllAvailable(ctx context.Context) ([]*drone.Drone, error) {
	return r.getAllByStatus(ctx, drone.Available.String())
}

// GetAllActive retrieves every drone in a moving status. The reconciliation
// sweep uses this to restart tick loops after a process restart.
func (r *GormDroneRepository) GetAllActive(ctx context.Context) ([]*drone.Drone, error) {
	return r.getAllByStatus(ctx,
		drone.Flying.String(), drone.Delivering.String(), drone.Returning.String())
}

func (r *GormDroneRepository) getAllByStatus(ctx context.Context, statuses ...string) ([]*drone.Drone, error) {
	var dtos []DroneDTO
	if err := r.db.WithContext(ctx).
		Preload("TrackPoints", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("status IN ?", statuses).
		Order("name").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	drones := make([]*drone.Drone, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		drones = append(drones, d)
	}
	return drones, nil
}
