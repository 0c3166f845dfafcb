package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proof is a photo record evidencing a completed pickup at a TPS.
type Proof struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DriverID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"driver_id"`
	TPSID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"tps_id"`
	ScheduleID uuid.UUID  `gorm:"type:uuid;not null;index" json:"schedule_id"`
	PhotoURL   string     `gorm:"type:text;not null" json:"photo_url"`
	TakenAt    time.Time  `gorm:"not null" json:"taken_at"`
	Verified   bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedBy *uuid.UUID `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Proof) TableName() string {
	return "proofs"
}

func (p *Proof) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
