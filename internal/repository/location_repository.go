package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Upsert replaces the driver's single location row.
func (r *LocationRepository) Upsert(ctx context.Context, location model.DriverLocation) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO driver_locations (driver_id, schedule_id, latitude, longitude, speed_kmh, heading, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (driver_id) DO UPDATE SET
			schedule_id = EXCLUDED.schedule_id,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			speed_kmh = EXCLUDED.speed_kmh,
			heading = EXCLUDED.heading,
			recorded_at = EXCLUDED.recorded_at
	`,
		location.DriverID,
		location.ScheduleID,
		location.Latitude,
		location.Longitude,
		location.SpeedKmh,
		location.Heading,
		location.RecordedAt,
	).Error
}

func (r *LocationRepository) GetByDriver(ctx context.Context, driverID uuid.UUID) (*model.DriverLocation, error) {
	var location model.DriverLocation
	err := r.db.WithContext(ctx).Raw(`
		SELECT driver_id, schedule_id, latitude, longitude, speed_kmh, heading, recorded_at
		FROM driver_locations
		WHERE driver_id = ?
		LIMIT 1
	`, driverID).Scan(&location).Error
	if err != nil {
		return nil, err
	}
	if location.DriverID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &location, nil
}

// ListSince returns positions recorded at or after the cutoff. Older rows are
// stale and excluded.
func (r *LocationRepository) ListSince(ctx context.Context, cutoff time.Time) ([]model.DriverLocation, error) {
	var locations []model.DriverLocation
	err := r.db.WithContext(ctx).Raw(`
		SELECT driver_id, schedule_id, latitude, longitude, speed_kmh, heading, recorded_at
		FROM driver_locations
		WHERE recorded_at >= ?
		ORDER BY recorded_at DESC
	`, cutoff).Scan(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}
