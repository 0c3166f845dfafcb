package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
	"github.com/bluebin-id/bluebin-api/internal/repository"
)

// In-memory stand-ins for the postgres repositories and the outbound clients.
// They keep just enough state to exercise the service rules.

type fakeScheduleRepo struct {
	schedules map[uuid.UUID]*model.Schedule
	stops     map[uuid.UUID][]model.ScheduleStop
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		schedules: make(map[uuid.UUID]*model.Schedule),
		stops:     make(map[uuid.UUID][]model.ScheduleStop),
	}
}

func (r *fakeScheduleRepo) CreateWithStops(ctx context.Context, schedule model.Schedule, stops []model.ScheduleStop) (*model.Schedule, error) {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	schedule.CreatedAt = time.Now()
	for i := range stops {
		stops[i].ScheduleID = schedule.ID
	}
	r.schedules[schedule.ID] = &schedule
	r.stops[schedule.ID] = stops
	return r.GetByID(ctx, schedule.ID)
}

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *schedule
	out.Stops = append([]model.ScheduleStop(nil), r.stops[id]...)
	return &out, nil
}

func (r *fakeScheduleRepo) List(ctx context.Context, filter repository.ScheduleFilter) ([]model.Schedule, error) {
	var out []model.Schedule
	for id, schedule := range r.schedules {
		if filter.DriverID != nil && (schedule.DriverID == nil || *schedule.DriverID != *filter.DriverID) {
			continue
		}
		if filter.Status != nil && schedule.Status != *filter.Status {
			continue
		}
		got, _ := r.GetByID(ctx, id)
		out = append(out, *got)
	}
	return out, nil
}

func (r *fakeScheduleRepo) UpdateApproval(ctx context.Context, id uuid.UUID, status model.ScheduleStatus, approvedBy *uuid.UUID, approvedAt *time.Time, rejectionReason *string) error {
	schedule, ok := r.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	schedule.Status = status
	schedule.ApprovedBy = approvedBy
	schedule.ApprovedAt = approvedAt
	schedule.RejectionReason = rejectionReason
	return nil
}

func (r *fakeScheduleRepo) Assign(ctx context.Context, id, driverID uuid.UUID, at time.Time) error {
	schedule, ok := r.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	schedule.DriverID = &driverID
	schedule.Status = model.ScheduleStatusAssigned
	schedule.AssignedAt = &at
	return nil
}

func (r *fakeScheduleRepo) Start(ctx context.Context, id uuid.UUID, at time.Time) error {
	schedule, ok := r.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	schedule.Status = model.ScheduleStatusInProgress
	schedule.StartedAt = &at
	return nil
}

func (r *fakeScheduleRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	schedule, ok := r.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	schedule.Status = model.ScheduleStatusCancelled
	return nil
}

func (r *fakeScheduleRepo) CompleteStop(ctx context.Context, stop model.ScheduleStop) error {
	stops := r.stops[stop.ScheduleID]
	for i := range stops {
		if stops[i].TPSID != stop.TPSID || stops[i].Completed {
			continue
		}
		stops[i].Completed = true
		stops[i].CompletedAt = stop.CompletedAt
		stops[i].ProofPhotoURL = stop.ProofPhotoURL
		stops[i].Notes = stop.Notes
		stops[i].HasIssue = stop.HasIssue
		stops[i].DriverLatitude = stop.DriverLatitude
		stops[i].DriverLongitude = stop.DriverLongitude
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeScheduleRepo) RemainingStops(ctx context.Context, scheduleID uuid.UUID) (int64, error) {
	var remaining int64
	for _, stop := range r.stops[scheduleID] {
		if !stop.Completed {
			remaining++
		}
	}
	return remaining, nil
}

func (r *fakeScheduleRepo) Complete(ctx context.Context, id uuid.UUID, at time.Time) error {
	schedule, ok := r.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	schedule.Status = model.ScheduleStatusCompleted
	schedule.CompletedAt = &at
	return nil
}

func (r *fakeScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.schedules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.schedules, id)
	delete(r.stops, id)
	return nil
}

type fakeTPSRepo struct {
	items []model.TPS
}

func (r *fakeTPSRepo) Create(ctx context.Context, tps model.TPS) (*model.TPS, error) {
	if tps.ID == uuid.Nil {
		tps.ID = uuid.New()
	}
	tps.LastUpdated = time.Now()
	r.items = append(r.items, tps)
	return &tps, nil
}

func (r *fakeTPSRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.TPS, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			out := r.items[i]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTPSRepo) List(ctx context.Context, status *model.TPSStatus) ([]model.TPS, error) {
	var out []model.TPS
	for _, tps := range r.items {
		if status == nil || tps.Status == *status {
			out = append(out, tps)
		}
	}
	return out, nil
}

func (r *fakeTPSRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.TPS, error) {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []model.TPS
	for _, tps := range r.items {
		if _, ok := want[tps.ID]; ok {
			out = append(out, tps)
		}
	}
	return out, nil
}

func (r *fakeTPSRepo) Update(ctx context.Context, tps model.TPS) (*model.TPS, error) {
	for i := range r.items {
		if r.items[i].ID == tps.ID {
			tps.LastUpdated = time.Now()
			r.items[i] = tps
			return &tps, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTPSRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TPSStatus, at time.Time) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			r.items[i].LastUpdated = at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeTPSRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = &user
	out := user
	return &out, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *user
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, role *model.UserRole, approved *bool) ([]model.User, error) {
	var out []model.User
	for _, user := range r.users {
		if role != nil && user.Role != *role {
			continue
		}
		if approved != nil && user.Approved != *approved {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Approved = approved
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeProofRepo struct {
	proofs []model.Proof
}

func (r *fakeProofRepo) Create(ctx context.Context, proof model.Proof) (*model.Proof, error) {
	if proof.ID == uuid.Nil {
		proof.ID = uuid.New()
	}
	r.proofs = append(r.proofs, proof)
	out := proof
	return &out, nil
}

func (r *fakeProofRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Proof, error) {
	for i := range r.proofs {
		if r.proofs[i].ID == id {
			out := r.proofs[i]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProofRepo) List(ctx context.Context, filter repository.ProofFilter) ([]model.Proof, error) {
	var out []model.Proof
	for _, proof := range r.proofs {
		if filter.DriverID != nil && proof.DriverID != *filter.DriverID {
			continue
		}
		if filter.ScheduleID != nil && proof.ScheduleID != *filter.ScheduleID {
			continue
		}
		if filter.Verified != nil && proof.Verified != *filter.Verified {
			continue
		}
		out = append(out, proof)
	}
	return out, nil
}

func (r *fakeProofRepo) Verify(ctx context.Context, id, verifiedBy uuid.UUID, at time.Time) error {
	for i := range r.proofs {
		if r.proofs[i].ID == id {
			r.proofs[i].Verified = true
			r.proofs[i].VerifiedBy = &verifiedBy
			r.proofs[i].VerifiedAt = &at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeOptimizer struct {
	plan      *model.RoutePlan
	err       error
	gotPoints []model.RoutePoint
}

func (o *fakeOptimizer) Optimize(ctx context.Context, points []model.RoutePoint) (*model.RoutePlan, error) {
	o.gotPoints = points
	if o.err != nil {
		return nil, o.err
	}
	return o.plan, nil
}

type fakeManifest struct{}

func (fakeManifest) Generate(schedule model.Schedule) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(user model.User, now time.Time) (string, error) {
	return fmt.Sprintf("token-%s", user.ID), nil
}

type fakeLocationRepo struct {
	locations map[uuid.UUID]model.DriverLocation
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[uuid.UUID]model.DriverLocation)}
}

func (r *fakeLocationRepo) Upsert(ctx context.Context, location model.DriverLocation) error {
	r.locations[location.DriverID] = location
	return nil
}

func (r *fakeLocationRepo) GetByDriver(ctx context.Context, driverID uuid.UUID) (*model.DriverLocation, error) {
	location, ok := r.locations[driverID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &location, nil
}

func (r *fakeLocationRepo) ListSince(ctx context.Context, cutoff time.Time) ([]model.DriverLocation, error) {
	var out []model.DriverLocation
	for _, location := range r.locations {
		if !location.RecordedAt.Before(cutoff) {
			out = append(out, location)
		}
	}
	return out, nil
}

type fakeBroadcaster struct {
	sent []model.DriverLocation
}

func (b *fakeBroadcaster) Broadcast(location model.DriverLocation) {
	b.sent = append(b.sent, location)
}

type fakeRequestRepo struct {
	requests []model.CollectionRequest
}

func (r *fakeRequestRepo) Create(ctx context.Context, request model.CollectionRequest) (*model.CollectionRequest, error) {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if request.Status == "" {
		request.Status = model.RequestStatusOpen
	}
	request.CreatedAt = time.Now()
	r.requests = append(r.requests, request)
	out := request
	return &out, nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.CollectionRequest, error) {
	for i := range r.requests {
		if r.requests[i].ID == id {
			out := r.requests[i]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]model.CollectionRequest, error) {
	var out []model.CollectionRequest
	for _, request := range r.requests {
		if filter.TPSID != nil && request.TPSID != *filter.TPSID {
			continue
		}
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		if filter.RequestedBy != nil && request.RequestedBy != *filter.RequestedBy {
			continue
		}
		out = append(out, request)
	}
	return out, nil
}

func (r *fakeRequestRepo) HasOpenForTPS(ctx context.Context, tpsID uuid.UUID) (bool, error) {
	for _, request := range r.requests {
		if request.TPSID == tpsID && request.Status != model.RequestStatusClosed {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) Close(ctx context.Context, id uuid.UUID, at time.Time) error {
	for i := range r.requests {
		if r.requests[i].ID == id {
			r.requests[i].Status = model.RequestStatusClosed
			r.requests[i].ResolvedAt = &at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
