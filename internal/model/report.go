package model

import (
	"time"

	"github.com/google/uuid"
)

// CollectionDetail is one completed pickup in a collections report.
type CollectionDetail struct {
	ScheduleID   uuid.UUID
	ScheduleDate time.Time
	DriverName   *string
	CompletedAt  *time.Time
	HasIssue     bool
	PhotoURL     *string
	Verified     bool
}

// TPSGroup aggregates a reporting period's pickups at one collection point.
type TPSGroup struct {
	ID          uuid.UUID
	Name        string
	Address     string
	PickupCount int64
	Pickups     []CollectionDetail `gorm:"-"`
}

type CollectionReport struct {
	PeriodStart  time.Time
	PeriodEnd    time.Time
	TotalPickups int64
	Groups       []TPSGroup
}
