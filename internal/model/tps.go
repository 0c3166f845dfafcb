package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TPSStatus string

const (
	TPSStatusFull    TPSStatus = "PENUH"
	TPSStatusNotFull TPSStatus = "TIDAK_PENUH"
)

// TPS is a waste collection point (Tempat Pembuangan Sampah).
type TPS struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	Latitude          float64    `gorm:"not null" json:"latitude"`
	Longitude         float64    `gorm:"not null" json:"longitude"`
	Address           string     `gorm:"type:text" json:"address"`
	Status            TPSStatus  `gorm:"type:tps_status;not null;default:TIDAK_PENUH" json:"status"`
	AssignedOfficerID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_officer_id"`
	LastUpdated       time.Time  `gorm:"not null" json:"last_updated"`
}

func (TPS) TableName() string {
	return "tps"
}

func (t *TPS) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
