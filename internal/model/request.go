package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "OPEN"
	RequestStatusScheduled RequestStatus = "SCHEDULED"
	RequestStatusClosed    RequestStatus = "CLOSED"
)

// CollectionRequest is filed by a TPS officer when their collection point
// needs a pickup. It is marked SCHEDULED once a schedule covers the TPS and
// CLOSED when that schedule completes.
type CollectionRequest struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	TPSID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"tps_id"`
	RequestedBy uuid.UUID     `gorm:"type:uuid;not null" json:"requested_by"`
	Note        string        `gorm:"type:text" json:"note"`
	Status      RequestStatus `gorm:"type:request_status;not null;default:OPEN" json:"status"`
	ScheduleID  *uuid.UUID    `gorm:"type:uuid" json:"schedule_id,omitempty"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}

func (CollectionRequest) TableName() string {
	return "collection_requests"
}

func (r *CollectionRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
