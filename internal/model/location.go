package model

import (
	"time"

	"github.com/google/uuid"
)

// DriverLocation is the last reported GPS position of a driver. One row per
// driver, replaced on every update.
type DriverLocation struct {
	DriverID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"driver_id"`
	ScheduleID *uuid.UUID `gorm:"type:uuid" json:"schedule_id,omitempty"`
	Latitude   float64    `gorm:"not null" json:"latitude"`
	Longitude  float64    `gorm:"not null" json:"longitude"`
	SpeedKmh   *float64   `json:"speed_kmh,omitempty"`
	Heading    *float64   `json:"heading,omitempty"`
	RecordedAt time.Time  `gorm:"not null;index" json:"recorded_at"`
}

func (DriverLocation) TableName() string {
	return "driver_locations"
}

// Stale reports whether the position is older than ttl at the given instant.
func (l DriverLocation) Stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(l.RecordedAt) > ttl
}
