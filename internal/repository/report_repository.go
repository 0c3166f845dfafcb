package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// PickupCountsByTPS counts completed stops per collection point within the
// period. TPS with no pickups are still listed with a zero count.
func (r *ReportRepository) PickupCountsByTPS(ctx context.Context, from, toExclusive time.Time) ([]model.TPSGroup, error) {
	var groups []model.TPSGroup
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			t.id,
			t.name,
			COALESCE(t.address, '') AS address,
			COUNT(ss.tps_id) FILTER (
				WHERE ss.completed AND ss.completed_at >= ? AND ss.completed_at < ?
			) AS pickup_count
		FROM tps t
		LEFT JOIN schedule_stops ss ON ss.tps_id = t.id
		GROUP BY t.id, t.name, t.address
		ORDER BY t.name ASC
	`, from, toExclusive).Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// ListPickupsForTPS returns the completed stops at one collection point
// within the period, newest first.
func (r *ReportRepository) ListPickupsForTPS(ctx context.Context, tpsID uuid.UUID, from, toExclusive time.Time) ([]model.CollectionDetail, error) {
	var pickups []model.CollectionDetail
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id AS schedule_id,
			s.date AS schedule_date,
			u.name AS driver_name,
			ss.completed_at,
			ss.has_issue,
			ss.proof_photo_url AS photo_url,
			COALESCE(p.verified, FALSE) AS verified
		FROM schedule_stops ss
		JOIN schedules s ON s.id = ss.schedule_id
		LEFT JOIN users u ON u.id = s.driver_id
		LEFT JOIN proofs p ON p.schedule_id = ss.schedule_id AND p.tps_id = ss.tps_id
		WHERE ss.tps_id = ?
			AND ss.completed
			AND ss.completed_at >= ?
			AND ss.completed_at < ?
		ORDER BY ss.completed_at DESC
	`, tpsID, from, toExclusive).Scan(&pickups).Error
	if err != nil {
		return nil, err
	}
	return pickups, nil
}
