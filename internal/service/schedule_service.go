package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
	"github.com/bluebin-id/bluebin-api/internal/repository"
)

type ScheduleRepository interface {
	CreateWithStops(ctx context.Context, schedule model.Schedule, stops []model.ScheduleStop) (*model.Schedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	List(ctx context.Context, filter repository.ScheduleFilter) ([]model.Schedule, error)
	UpdateApproval(ctx context.Context, id uuid.UUID, status model.ScheduleStatus, approvedBy *uuid.UUID, approvedAt *time.Time, rejectionReason *string) error
	Assign(ctx context.Context, id, driverID uuid.UUID, at time.Time) error
	Start(ctx context.Context, id uuid.UUID, at time.Time) error
	Cancel(ctx context.Context, id uuid.UUID) error
	CompleteStop(ctx context.Context, stop model.ScheduleStop) error
	RemainingStops(ctx context.Context, scheduleID uuid.UUID) (int64, error)
	Complete(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RouteOptimizer interface {
	Optimize(ctx context.Context, points []model.RoutePoint) (*model.RoutePlan, error)
}

type ProofRepository interface {
	Create(ctx context.Context, proof model.Proof) (*model.Proof, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Proof, error)
	List(ctx context.Context, filter repository.ProofFilter) ([]model.Proof, error)
	Verify(ctx context.Context, id, verifiedBy uuid.UUID, at time.Time) error
}

type ManifestGenerator interface {
	Generate(schedule model.Schedule) ([]byte, error)
}

type ScheduleService struct {
	schedules ScheduleRepository
	tps       TPSRepository
	users     UserRepository
	proofs    ProofRepository
	optimizer RouteOptimizer
	manifest  ManifestGenerator
}

func NewScheduleService(
	schedules ScheduleRepository,
	tps TPSRepository,
	users UserRepository,
	proofs ProofRepository,
	optimizer RouteOptimizer,
	manifest ManifestGenerator,
) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		tps:       tps,
		users:     users,
		proofs:    proofs,
		optimizer: optimizer,
		manifest:  manifest,
	}
}

type GenerateScheduleInput struct {
	Date      time.Time
	TPSIDs    []uuid.UUID
	Principal model.Principal
}

// GenerateOptimized asks the external optimizer for a visiting order over the
// given collection points (all full TPS when none are named) and persists the
// result as an AI_GENERATED schedule awaiting admin approval.
func (s *ScheduleService) GenerateOptimized(ctx context.Context, input GenerateScheduleInput) (*model.Schedule, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	var points []model.TPS
	var err error
	if len(input.TPSIDs) > 0 {
		points, err = s.tps.ListByIDs(ctx, input.TPSIDs)
		if err != nil {
			return nil, err
		}
		if len(points) != len(input.TPSIDs) {
			return nil, fmt.Errorf("%w: unknown tps id in route", ErrInvalidInput)
		}
	} else {
		full := model.TPSStatusFull
		points, err = s.tps.List(ctx, &full)
		if err != nil {
			return nil, err
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no collection points to route", ErrInvalidInput)
	}

	routePoints := make([]model.RoutePoint, 0, len(points))
	byName := make(map[string]model.TPS, len(points))
	for _, tps := range points {
		routePoints = append(routePoints, model.RoutePoint{
			Name: tps.Name,
			Lat:  tps.Latitude,
			Lng:  tps.Longitude,
		})
		byName[tps.Name] = tps
	}

	plan, err := s.optimizer.Optimize(ctx, routePoints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOptimizerUnavailable, err)
	}

	stops, err := stopsFromPlan(plan, byName)
	if err != nil {
		return nil, err
	}

	schedule := model.Schedule{
		Date:             dateOnly(input.Date),
		Status:           model.ScheduleStatusPendingApproval,
		Generation:       model.GenerationAI,
		TotalDistanceKm:  plan.TotalDistanceKm,
		EstimatedMinutes: plan.EstimatedTotalMinutes,
		CreatedBy:        input.Principal.UserID,
	}
	return s.schedules.CreateWithStops(ctx, schedule, stops)
}

// stopsFromPlan turns the optimizer's segment list into ordered stops. The
// visiting order is seg[0].From, seg[0].To, seg[1].To and so on; every name
// must map back to a requested TPS.
func stopsFromPlan(plan *model.RoutePlan, byName map[string]model.TPS) ([]model.ScheduleStop, error) {
	if len(plan.Segments) == 0 {
		// Single point: no legs, one stop.
		if len(byName) == 1 {
			for _, tps := range byName {
				return []model.ScheduleStop{{TPSID: tps.ID, Sequence: 1}}, nil
			}
		}
		return nil, fmt.Errorf("%w: optimizer returned no segments", ErrOptimizerUnavailable)
	}

	names := make([]string, 0, len(plan.Segments)+1)
	names = append(names, plan.Segments[0].From)
	for i, segment := range plan.Segments {
		if i > 0 && segment.From != plan.Segments[i-1].To {
			return nil, fmt.Errorf("%w: disconnected segment %q -> %q", ErrOptimizerUnavailable, segment.From, segment.To)
		}
		names = append(names, segment.To)
	}

	stops := make([]model.ScheduleStop, 0, len(names))
	seen := make(map[uuid.UUID]struct{}, len(names))
	for i, name := range names {
		tps, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown point %q in optimizer response", ErrOptimizerUnavailable, name)
		}
		if _, dup := seen[tps.ID]; dup {
			return nil, fmt.Errorf("%w: point %q visited twice", ErrOptimizerUnavailable, name)
		}
		seen[tps.ID] = struct{}{}

		stop := model.ScheduleStop{TPSID: tps.ID, Sequence: i + 1}
		if i > 0 {
			stop.DistanceFromPrevKm = plan.Segments[i-1].DistanceKm
			stop.MinutesFromPrev = plan.Segments[i-1].EstimatedTimeMinutes
		}
		stops = append(stops, stop)
	}
	return stops, nil
}

type ManualScheduleInput struct {
	Date            time.Time
	TPSIDs          []uuid.UUID
	DriverID        *uuid.UUID
	IsRecurring     bool
	RecurrenceRule  string
	RecurrenceUntil *time.Time
	Principal       model.Principal
}

// CreateManual persists an admin-ordered route. The manual path skips
// approval: the schedule starts PENDING, or ASSIGNED when a driver is given.
func (s *ScheduleService) CreateManual(ctx context.Context, input ManualScheduleInput) (*model.Schedule, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len(input.TPSIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one stop is required", ErrInvalidInput)
	}
	if input.IsRecurring && strings.TrimSpace(input.RecurrenceRule) == "" {
		return nil, fmt.Errorf("%w: recurrence_rule is required for recurring schedules", ErrInvalidInput)
	}

	points, err := s.tps.ListByIDs(ctx, input.TPSIDs)
	if err != nil {
		return nil, err
	}
	if len(points) != len(input.TPSIDs) {
		return nil, fmt.Errorf("%w: unknown tps id in route", ErrInvalidInput)
	}

	now := time.Now()
	schedule := model.Schedule{
		Date:        dateOnly(input.Date),
		Status:      model.ScheduleStatusPending,
		Generation:  model.GenerationManual,
		IsRecurring: input.IsRecurring,
		CreatedBy:   input.Principal.UserID,
	}
	if input.IsRecurring {
		rule := strings.TrimSpace(input.RecurrenceRule)
		schedule.RecurrenceRule = &rule
		schedule.RecurrenceUntil = input.RecurrenceUntil
	}
	if input.DriverID != nil {
		if err := s.requireApprovedDriver(ctx, *input.DriverID); err != nil {
			return nil, err
		}
		schedule.DriverID = input.DriverID
		schedule.Status = model.ScheduleStatusAssigned
		schedule.AssignedAt = &now
	}

	stops := make([]model.ScheduleStop, 0, len(input.TPSIDs))
	seen := make(map[uuid.UUID]struct{}, len(input.TPSIDs))
	for i, tpsID := range input.TPSIDs {
		if _, dup := seen[tpsID]; dup {
			return nil, fmt.Errorf("%w: duplicate tps in route", ErrInvalidInput)
		}
		seen[tpsID] = struct{}{}
		stops = append(stops, model.ScheduleStop{TPSID: tpsID, Sequence: i + 1})
	}

	return s.schedules.CreateWithStops(ctx, schedule, stops)
}

func (s *ScheduleService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsDriver() && (schedule.DriverID == nil || *schedule.DriverID != principal.UserID) {
		return nil, ErrPermissionDenied
	}
	return schedule, nil
}

func (s *ScheduleService) List(ctx context.Context, principal model.Principal, filter repository.ScheduleFilter) ([]model.Schedule, error) {
	if principal.IsDriver() {
		driverID := principal.UserID
		filter.DriverID = &driverID
	}
	return s.schedules.List(ctx, filter)
}

// Approve moves an AI-generated schedule out of PENDING_APPROVAL.
func (s *ScheduleService) Approve(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Schedule, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	schedule, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if schedule.Generation != model.GenerationAI {
		return nil, fmt.Errorf("%w: manual schedules do not require approval", ErrInvalidInput)
	}
	if !model.CanTransition(schedule.Status, model.ScheduleStatusApproved) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, schedule.Status, model.ScheduleStatusApproved)
	}

	now := time.Now()
	approver := principal.UserID
	if err := s.schedules.UpdateApproval(ctx, id, model.ScheduleStatusApproved, &approver, &now, nil); err != nil {
		return nil, err
	}
	return s.schedules.GetByID(ctx, id)
}

// Reject cancels an AI-generated schedule with a reason.
func (s *ScheduleService) Reject(ctx context.Context, principal model.Principal, id uuid.UUID, reason string) (*model.Schedule, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrInvalidInput)
	}
	schedule, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if schedule.Generation != model.GenerationAI || schedule.Status != model.ScheduleStatusPendingApproval {
		return nil, fmt.Errorf("%w: only schedules pending approval can be rejected", ErrInvalidTransition)
	}

	if err := s.schedules.UpdateApproval(ctx, id, model.ScheduleStatusCancelled, nil, nil, &reason); err != nil {
		return nil, err
	}
	return s.schedules.GetByID(ctx, id)
}

// Assign hands the schedule to an approved driver. AI-generated schedules
// must be approved first.
func (s *ScheduleService) Assign(ctx context.Context, principal model.Principal, id, driverID uuid.UUID) (*model.Schedule, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	schedule, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(schedule.Status, model.ScheduleStatusAssigned) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, schedule.Status, model.ScheduleStatusAssigned)
	}
	if err := s.requireApprovedDriver(ctx, driverID); err != nil {
		return nil, err
	}

	if err := s.schedules.Assign(ctx, id, driverID, time.Now()); err != nil {
		return nil, err
	}
	return s.schedules.GetByID(ctx, id)
}

// Start begins the route. Only the assigned driver may start it.
func (s *ScheduleService) Start(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Schedule, error) {
	schedule, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsDriver() || schedule.DriverID == nil || *schedule.DriverID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	if !model.CanTransition(schedule.Status, model.ScheduleStatusInProgress) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, schedule.Status, model.ScheduleStatusInProgress)
	}

	if err := s.schedules.Start(ctx, id, time.Now()); err != nil {
		return nil, err
	}
	return s.schedules.GetByID(ctx, id)
}

type CompleteStopInput struct {
	ScheduleID uuid.UUID
	TPSID      uuid.UUID
	PhotoURL   string
	Notes      string
	HasIssue   bool
	Latitude   *float64
	Longitude  *float64
	Principal  model.Principal
}

// CompleteStop records the pickup at one stop with photographic proof. The
// final stop completes the whole schedule.
func (s *ScheduleService) CompleteStop(ctx context.Context, input CompleteStopInput) (*model.Schedule, error) {
	schedule, err := s.Get(ctx, input.Principal, input.ScheduleID)
	if err != nil {
		return nil, err
	}
	if !input.Principal.IsDriver() || schedule.DriverID == nil || *schedule.DriverID != input.Principal.UserID {
		return nil, ErrPermissionDenied
	}
	if schedule.Status != model.ScheduleStatusInProgress {
		return nil, fmt.Errorf("%w: schedule is not in progress", ErrInvalidTransition)
	}
	photoURL := strings.TrimSpace(input.PhotoURL)
	if photoURL == "" {
		return nil, fmt.Errorf("%w: proof photo is required", ErrInvalidInput)
	}

	now := time.Now()
	stop := model.ScheduleStop{
		ScheduleID:      input.ScheduleID,
		TPSID:           input.TPSID,
		CompletedAt:     &now,
		ProofPhotoURL:   &photoURL,
		HasIssue:        input.HasIssue,
		DriverLatitude:  input.Latitude,
		DriverLongitude: input.Longitude,
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		stop.Notes = &notes
	}

	if err := s.schedules.CompleteStop(ctx, stop); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stop not found or already completed", ErrInvalidInput)
		}
		return nil, err
	}

	if _, err := s.proofs.Create(ctx, model.Proof{
		DriverID:   input.Principal.UserID,
		TPSID:      input.TPSID,
		ScheduleID: input.ScheduleID,
		PhotoURL:   photoURL,
		TakenAt:    now,
	}); err != nil {
		return nil, err
	}

	remaining, err := s.schedules.RemainingStops(ctx, input.ScheduleID)
	if err != nil {
		return nil, err
	}
	if remaining == 0 {
		if err := s.schedules.Complete(ctx, input.ScheduleID, now); err != nil {
			return nil, err
		}
	}

	return s.schedules.GetByID(ctx, input.ScheduleID)
}

func (s *ScheduleService) Cancel(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Schedule, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	schedule, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(schedule.Status, model.ScheduleStatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, schedule.Status, model.ScheduleStatusCancelled)
	}

	if err := s.schedules.Cancel(ctx, id); err != nil {
		return nil, err
	}
	return s.schedules.GetByID(ctx, id)
}

func (s *ScheduleService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := s.schedules.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

type ManifestResult struct {
	FileName string
	Content  []byte
}

// Manifest renders the printable route sheet for the schedule.
func (s *ScheduleService) Manifest(ctx context.Context, principal model.Principal, id uuid.UUID) (*ManifestResult, error) {
	if principal.IsOfficer() {
		return nil, ErrPermissionDenied
	}
	schedule, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	content, err := s.manifest.Generate(*schedule)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("route-%s-%s.pdf", schedule.Date.Format("20060102"), schedule.ID.String()[:8])
	return &ManifestResult{FileName: fileName, Content: content}, nil
}

func (s *ScheduleService) requireApprovedDriver(ctx context.Context, driverID uuid.UUID) error {
	driver, err := s.users.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: driver not found", ErrInvalidInput)
		}
		return err
	}
	if driver.Role != model.RoleDriver || !driver.Approved {
		return fmt.Errorf("%w: assignee must be an approved driver", ErrInvalidInput)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
