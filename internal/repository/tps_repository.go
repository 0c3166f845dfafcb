package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type TPSRepository struct {
	db *gorm.DB
}

func NewTPSRepository(db *gorm.DB) *TPSRepository {
	return &TPSRepository{db: db}
}

func (r *TPSRepository) Create(ctx context.Context, tps model.TPS) (*model.TPS, error) {
	var saved model.TPS
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO tps (name, latitude, longitude, address, status, assigned_officer_id, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
		RETURNING id, name, latitude, longitude, address, status, assigned_officer_id, last_updated
	`, tps.Name, tps.Latitude, tps.Longitude, tps.Address, tps.Status, tps.AssignedOfficerID).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *TPSRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TPS, error) {
	var tps model.TPS
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, latitude, longitude, address, status, assigned_officer_id, last_updated
		FROM tps
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&tps).Error
	if err != nil {
		return nil, err
	}
	if tps.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &tps, nil
}

func (r *TPSRepository) List(ctx context.Context, status *model.TPSStatus) ([]model.TPS, error) {
	query := `
		SELECT id, name, latitude, longitude, address, status, assigned_officer_id, last_updated
		FROM tps
	`
	args := []interface{}{}
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY name ASC"

	var points []model.TPS
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

// ListByIDs returns the points for the given ids, preserving no particular order.
func (r *TPSRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.TPS, error) {
	if len(ids) == 0 {
		return []model.TPS{}, nil
	}
	var points []model.TPS
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, latitude, longitude, address, status, assigned_officer_id, last_updated
		FROM tps
		WHERE id = ANY(?)
	`, ids).Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *TPSRepository) Update(ctx context.Context, tps model.TPS) (*model.TPS, error) {
	var saved model.TPS
	err := r.db.WithContext(ctx).Raw(`
		UPDATE tps
		SET name = ?, latitude = ?, longitude = ?, address = ?, status = ?, assigned_officer_id = ?, last_updated = NOW()
		WHERE id = ?
		RETURNING id, name, latitude, longitude, address, status, assigned_officer_id, last_updated
	`, tps.Name, tps.Latitude, tps.Longitude, tps.Address, tps.Status, tps.AssignedOfficerID, tps.ID).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

// UpdateStatus touches only status and last_updated, the two fields a TPS
// officer is allowed to mutate.
func (r *TPSRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TPSStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE tps SET status = ?, last_updated = ? WHERE id = ?
	`, status, at, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TPSRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM tps WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
