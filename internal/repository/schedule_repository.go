package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateWithStops inserts the schedule and its ordered stops in one
// transaction and marks any open collection requests for the covered TPS as
// scheduled.
func (r *ScheduleRepository) CreateWithStops(ctx context.Context, schedule model.Schedule, stops []model.ScheduleStop) (*model.Schedule, error) {
	var saved model.Schedule
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO schedules (
				date,
				driver_id,
				status,
				generation,
				total_distance_km,
				estimated_minutes,
				is_recurring,
				recurrence_rule,
				recurrence_until,
				created_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING
				id, date, driver_id, status, generation,
				total_distance_km, estimated_minutes,
				rejection_reason, approved_by, approved_at,
				assigned_at, started_at, completed_at,
				is_recurring, recurrence_rule, recurrence_until,
				created_by, created_at
		`,
			schedule.Date,
			schedule.DriverID,
			schedule.Status,
			schedule.Generation,
			schedule.TotalDistanceKm,
			schedule.EstimatedMinutes,
			schedule.IsRecurring,
			schedule.RecurrenceRule,
			schedule.RecurrenceUntil,
			schedule.CreatedBy,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		tpsIDs := make([]uuid.UUID, 0, len(stops))
		for _, stop := range stops {
			if err := tx.Exec(`
				INSERT INTO schedule_stops (
					schedule_id, tps_id, sequence,
					distance_from_prev_km, minutes_from_prev
				) VALUES (?, ?, ?, ?, ?)
			`, saved.ID, stop.TPSID, stop.Sequence, stop.DistanceFromPrevKm, stop.MinutesFromPrev).Error; err != nil {
				return err
			}
			tpsIDs = append(tpsIDs, stop.TPSID)
		}

		if len(tpsIDs) > 0 {
			if err := tx.Exec(`
				UPDATE collection_requests
				SET status = 'SCHEDULED', schedule_id = ?
				WHERE status = 'OPEN' AND tps_id = ANY(?)
			`, saved.ID, tpsIDs).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	loaded, err := r.GetByID(ctx, saved.ID)
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, date, driver_id, status, generation,
			total_distance_km, estimated_minutes,
			rejection_reason, approved_by, approved_at,
			assigned_at, started_at, completed_at,
			is_recurring, recurrence_rule, recurrence_until,
			created_by, created_at
		FROM schedules
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&schedule).Error
	if err != nil {
		return nil, err
	}
	if schedule.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	stops, err := r.listStops(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule.Stops = stops
	return &schedule, nil
}

func (r *ScheduleRepository) listStops(ctx context.Context, scheduleID uuid.UUID) ([]model.ScheduleStop, error) {
	var stops []model.ScheduleStop
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			ss.schedule_id,
			ss.tps_id,
			ss.sequence,
			t.name AS tps_name,
			ss.distance_from_prev_km,
			ss.minutes_from_prev,
			ss.completed,
			ss.completed_at,
			ss.proof_photo_url,
			ss.notes,
			ss.has_issue,
			ss.driver_latitude,
			ss.driver_longitude
		FROM schedule_stops ss
		JOIN tps t ON t.id = ss.tps_id
		WHERE ss.schedule_id = ?
		ORDER BY ss.sequence ASC
	`, scheduleID).Scan(&stops).Error
	if err != nil {
		return nil, err
	}
	return stops, nil
}

type ScheduleFilter struct {
	DriverID *uuid.UUID
	Status   *model.ScheduleStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

func (r *ScheduleRepository) List(ctx context.Context, filter ScheduleFilter) ([]model.Schedule, error) {
	query := `
		SELECT
			id, date, driver_id, status, generation,
			total_distance_km, estimated_minutes,
			rejection_reason, approved_by, approved_at,
			assigned_at, started_at, completed_at,
			is_recurring, recurrence_rule, recurrence_until,
			created_by, created_at
		FROM schedules
		WHERE 1=1
	`
	args := []interface{}{}
	if filter.DriverID != nil {
		query += " AND driver_id = ?"
		args = append(args, *filter.DriverID)
	}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		query += " AND date >= ?"
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query += " AND date <= ?"
		args = append(args, *filter.DateTo)
	}
	query += " ORDER BY date DESC, created_at DESC"

	var schedules []model.Schedule
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// UpdateApproval records the admin's approve or reject decision.
func (r *ScheduleRepository) UpdateApproval(
	ctx context.Context,
	id uuid.UUID,
	status model.ScheduleStatus,
	approvedBy *uuid.UUID,
	approvedAt *time.Time,
	rejectionReason *string,
) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE schedules
		SET status = ?, approved_by = ?, approved_at = ?, rejection_reason = ?
		WHERE id = ?
	`, status, approvedBy, approvedAt, rejectionReason, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleRepository) Assign(ctx context.Context, id, driverID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE schedules
		SET status = ?, driver_id = ?, assigned_at = ?
		WHERE id = ?
	`, model.ScheduleStatusAssigned, driverID, at, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleRepository) Start(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE schedules
		SET status = ?, started_at = ?
		WHERE id = ?
	`, model.ScheduleStatusInProgress, at, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE schedules SET status = ? WHERE id = ?
	`, model.ScheduleStatusCancelled, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CompleteStop records the driver's completion of one stop.
func (r *ScheduleRepository) CompleteStop(ctx context.Context, stop model.ScheduleStop) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE schedule_stops
		SET
			completed = TRUE,
			completed_at = ?,
			proof_photo_url = ?,
			notes = ?,
			has_issue = ?,
			driver_latitude = ?,
			driver_longitude = ?
		WHERE schedule_id = ? AND tps_id = ? AND completed = FALSE
	`,
		stop.CompletedAt,
		stop.ProofPhotoURL,
		stop.Notes,
		stop.HasIssue,
		stop.DriverLatitude,
		stop.DriverLongitude,
		stop.ScheduleID,
		stop.TPSID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleRepository) RemainingStops(ctx context.Context, scheduleID uuid.UUID) (int64, error) {
	var remaining int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM schedule_stops
		WHERE schedule_id = ? AND completed = FALSE
	`, scheduleID).Scan(&remaining).Error
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// Complete closes the schedule and any collection requests it covered.
func (r *ScheduleRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE schedules
			SET status = ?, completed_at = ?
			WHERE id = ?
		`, model.ScheduleStatusCompleted, at, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Exec(`
			UPDATE collection_requests
			SET status = 'CLOSED', resolved_at = ?
			WHERE schedule_id = ? AND status = 'SCHEDULED'
		`, at, id).Error
	})
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM schedules WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
