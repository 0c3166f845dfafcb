package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type ReportRepository interface {
	PickupCountsByTPS(ctx context.Context, from, toExclusive time.Time) ([]model.TPSGroup, error)
	ListPickupsForTPS(ctx context.Context, tpsID uuid.UUID, from, toExclusive time.Time) ([]model.CollectionDetail, error)
}

type ExcelGenerator interface {
	Generate(report model.CollectionReport) ([]byte, error)
}

type ReportService struct {
	repo  ReportRepository
	excel ExcelGenerator
}

func NewReportService(repo ReportRepository, excel ExcelGenerator) *ReportService {
	return &ReportService{repo: repo, excel: excel}
}

type CollectionsReportInput struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Principal   model.Principal
}

type CollectionsReportResult struct {
	FileName string
	Content  []byte
}

// GenerateCollections builds the per-TPS pickup report for the period as an
// xlsx workbook.
func (s *ReportService) GenerateCollections(ctx context.Context, input CollectionsReportInput) (*CollectionsReportResult, error) {
	if input.Principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}

	periodStart := dateOnly(input.PeriodStart)
	periodEnd := dateOnly(input.PeriodEnd)
	if periodStart.After(periodEnd) {
		return nil, fmt.Errorf("%w: period_start must be before or equal to period_end", ErrInvalidInput)
	}
	endExclusive := periodEnd.Add(24 * time.Hour)

	groups, err := s.repo.PickupCountsByTPS(ctx, periodStart, endExclusive)
	if err != nil {
		return nil, err
	}

	totalPickups := int64(0)
	for i := range groups {
		totalPickups += groups[i].PickupCount
		if groups[i].PickupCount == 0 {
			continue
		}
		pickups, err := s.repo.ListPickupsForTPS(ctx, groups[i].ID, periodStart, endExclusive)
		if err != nil {
			return nil, err
		}
		groups[i].Pickups = pickups
	}

	report := model.CollectionReport{
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		TotalPickups: totalPickups,
		Groups:       groups,
	}

	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("collections-%s-%s.xlsx",
		periodStart.Format("20060102"), periodEnd.Format("20060102"))
	return &CollectionsReportResult{FileName: fileName, Content: content}, nil
}
