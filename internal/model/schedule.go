package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleStatus string

const (
	ScheduleStatusPendingApproval ScheduleStatus = "PENDING_APPROVAL"
	ScheduleStatusPending         ScheduleStatus = "PENDING"
	ScheduleStatusApproved        ScheduleStatus = "APPROVED"
	ScheduleStatusAssigned        ScheduleStatus = "ASSIGNED"
	ScheduleStatusInProgress      ScheduleStatus = "IN_PROGRESS"
	ScheduleStatusCompleted       ScheduleStatus = "COMPLETED"
	ScheduleStatusCancelled       ScheduleStatus = "CANCELLED"
)

type ScheduleGeneration string

const (
	GenerationManual ScheduleGeneration = "MANUAL"
	GenerationAI     ScheduleGeneration = "AI_GENERATED"
)

// scheduleTransitions lists every legal status transition. Anything absent
// is rejected; COMPLETED and CANCELLED are terminal.
var scheduleTransitions = map[ScheduleStatus][]ScheduleStatus{
	ScheduleStatusPendingApproval: {ScheduleStatusApproved, ScheduleStatusCancelled},
	ScheduleStatusPending:         {ScheduleStatusAssigned, ScheduleStatusCancelled},
	ScheduleStatusApproved:        {ScheduleStatusAssigned, ScheduleStatusCancelled},
	ScheduleStatusAssigned:        {ScheduleStatusInProgress, ScheduleStatusCancelled},
	ScheduleStatusInProgress:      {ScheduleStatusCompleted, ScheduleStatusCancelled},
}

// CanTransition reports whether a schedule may move from one status to another.
func CanTransition(from, to ScheduleStatus) bool {
	for _, next := range scheduleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Schedule struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Date             time.Time          `gorm:"not null;index" json:"date"`
	DriverID         *uuid.UUID         `gorm:"type:uuid;index" json:"driver_id"`
	Status           ScheduleStatus     `gorm:"type:schedule_status;not null" json:"status"`
	Generation       ScheduleGeneration `gorm:"type:schedule_generation;not null" json:"generation"`
	TotalDistanceKm  float64            `json:"total_distance_km"`
	EstimatedMinutes float64            `json:"estimated_minutes"`
	RejectionReason  *string            `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApprovedBy       *uuid.UUID         `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt       *time.Time         `json:"approved_at,omitempty"`
	AssignedAt       *time.Time         `json:"assigned_at,omitempty"`
	StartedAt        *time.Time         `json:"started_at,omitempty"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
	IsRecurring      bool               `gorm:"not null;default:false" json:"is_recurring"`
	RecurrenceRule   *string            `json:"recurrence_rule,omitempty"`
	RecurrenceUntil  *time.Time         `json:"recurrence_until,omitempty"`
	CreatedBy        uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt        time.Time          `gorm:"autoCreateTime" json:"created_at"`
	Stops            []ScheduleStop     `gorm:"-" json:"stops,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ScheduleStop is one ordered stop of a schedule route, carrying the segment
// estimate from the previous stop and the driver's completion record.
type ScheduleStop struct {
	ScheduleID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"schedule_id"`
	TPSID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"tps_id"`
	Sequence           int        `gorm:"not null" json:"sequence"`
	TPSName            string     `gorm:"-" json:"tps_name,omitempty"`
	DistanceFromPrevKm float64    `json:"distance_from_prev_km"`
	MinutesFromPrev    float64    `json:"minutes_from_prev"`
	Completed          bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ProofPhotoURL      *string    `gorm:"type:text" json:"proof_photo_url,omitempty"`
	Notes              *string    `gorm:"type:text" json:"notes,omitempty"`
	HasIssue           bool       `gorm:"not null;default:false" json:"has_issue"`
	DriverLatitude     *float64   `json:"driver_latitude,omitempty"`
	DriverLongitude    *float64   `json:"driver_longitude,omitempty"`
}

func (ScheduleStop) TableName() string {
	return "schedule_stops"
}
