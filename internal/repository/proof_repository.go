package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type ProofRepository struct {
	db *gorm.DB
}

func NewProofRepository(db *gorm.DB) *ProofRepository {
	return &ProofRepository{db: db}
}

func (r *ProofRepository) Create(ctx context.Context, proof model.Proof) (*model.Proof, error) {
	var saved model.Proof
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO proofs (driver_id, tps_id, schedule_id, photo_url, taken_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, driver_id, tps_id, schedule_id, photo_url, taken_at,
			verified, verified_by, verified_at, created_at
	`, proof.DriverID, proof.TPSID, proof.ScheduleID, proof.PhotoURL, proof.TakenAt).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ProofRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Proof, error) {
	var proof model.Proof
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, driver_id, tps_id, schedule_id, photo_url, taken_at,
			verified, verified_by, verified_at, created_at
		FROM proofs
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&proof).Error
	if err != nil {
		return nil, err
	}
	if proof.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &proof, nil
}

type ProofFilter struct {
	DriverID   *uuid.UUID
	ScheduleID *uuid.UUID
	Verified   *bool
}

func (r *ProofRepository) List(ctx context.Context, filter ProofFilter) ([]model.Proof, error) {
	query := `
		SELECT id, driver_id, tps_id, schedule_id, photo_url, taken_at,
			verified, verified_by, verified_at, created_at
		FROM proofs
		WHERE 1=1
	`
	args := []interface{}{}
	if filter.DriverID != nil {
		query += " AND driver_id = ?"
		args = append(args, *filter.DriverID)
	}
	if filter.ScheduleID != nil {
		query += " AND schedule_id = ?"
		args = append(args, *filter.ScheduleID)
	}
	if filter.Verified != nil {
		query += " AND verified = ?"
		args = append(args, *filter.Verified)
	}
	query += " ORDER BY taken_at DESC"

	var proofs []model.Proof
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&proofs).Error; err != nil {
		return nil, err
	}
	return proofs, nil
}

func (r *ProofRepository) Verify(ctx context.Context, id, verifiedBy uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE proofs
		SET verified = TRUE, verified_by = ?, verified_at = ?
		WHERE id = ?
	`, verifiedBy, at, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
