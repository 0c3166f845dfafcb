package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, request model.CollectionRequest) (*model.CollectionRequest, error) {
	var saved model.CollectionRequest
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO collection_requests (tps_id, requested_by, note)
		VALUES (?, ?, ?)
		RETURNING id, tps_id, requested_by, note, status, schedule_id, created_at, resolved_at
	`, request.TPSID, request.RequestedBy, request.Note).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CollectionRequest, error) {
	var request model.CollectionRequest
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, tps_id, requested_by, note, status, schedule_id, created_at, resolved_at
		FROM collection_requests
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&request).Error
	if err != nil {
		return nil, err
	}
	if request.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &request, nil
}

type RequestFilter struct {
	RequestedBy *uuid.UUID
	TPSID       *uuid.UUID
	Status      *model.RequestStatus
}

func (r *RequestRepository) List(ctx context.Context, filter RequestFilter) ([]model.CollectionRequest, error) {
	query := `
		SELECT id, tps_id, requested_by, note, status, schedule_id, created_at, resolved_at
		FROM collection_requests
		WHERE 1=1
	`
	args := []interface{}{}
	if filter.RequestedBy != nil {
		query += " AND requested_by = ?"
		args = append(args, *filter.RequestedBy)
	}
	if filter.TPSID != nil {
		query += " AND tps_id = ?"
		args = append(args, *filter.TPSID)
	}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	query += " ORDER BY created_at DESC"

	var requests []model.CollectionRequest
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// HasOpenForTPS reports whether the TPS already has an unresolved request.
func (r *RequestRepository) HasOpenForTPS(ctx context.Context, tpsID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM collection_requests
		WHERE tps_id = ? AND status IN ('OPEN', 'SCHEDULED')
	`, tpsID).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RequestRepository) Close(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE collection_requests
		SET status = 'CLOSED', resolved_at = ?
		WHERE id = ? AND status <> 'CLOSED'
	`, at, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
