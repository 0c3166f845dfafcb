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
)

type TPSRepository interface {
	Create(ctx context.Context, tps model.TPS) (*model.TPS, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.TPS, error)
	List(ctx context.Context, status *model.TPSStatus) ([]model.TPS, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.TPS, error)
	Update(ctx context.Context, tps model.TPS) (*model.TPS, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TPSStatus, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TPSService struct {
	repo TPSRepository
}

func NewTPSService(repo TPSRepository) *TPSService {
	return &TPSService{repo: repo}
}

type TPSInput struct {
	Name              string
	Latitude          float64
	Longitude         float64
	Address           string
	Status            model.TPSStatus
	AssignedOfficerID *uuid.UUID
}

func (s *TPSService) Create(ctx context.Context, principal model.Principal, input TPSInput) (*model.TPS, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := validateTPSInput(input); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = model.TPSStatusNotFull
	}
	return s.repo.Create(ctx, model.TPS{
		Name:              strings.TrimSpace(input.Name),
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		Address:           strings.TrimSpace(input.Address),
		Status:            status,
		AssignedOfficerID: input.AssignedOfficerID,
	})
}

func (s *TPSService) Get(ctx context.Context, id uuid.UUID) (*model.TPS, error) {
	tps, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tps, nil
}

func (s *TPSService) List(ctx context.Context, status *model.TPSStatus) ([]model.TPS, error) {
	if status != nil && *status != model.TPSStatusFull && *status != model.TPSStatusNotFull {
		return nil, fmt.Errorf("%w: invalid status filter", ErrInvalidInput)
	}
	return s.repo.List(ctx, status)
}

// Update replaces every mutable field. Admin only: officers go through
// UpdateStatus instead.
func (s *TPSService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input TPSInput) (*model.TPS, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := validateTPSInput(input); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(input.Name)
	current.Latitude = input.Latitude
	current.Longitude = input.Longitude
	current.Address = strings.TrimSpace(input.Address)
	if input.Status != "" {
		current.Status = input.Status
	}
	current.AssignedOfficerID = input.AssignedOfficerID

	updated, err := s.repo.Update(ctx, *current)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// UpdateStatus is the officer path: only status (and last_updated) change,
// and only on the officer's own TPS. Admins may flip any TPS.
func (s *TPSService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.TPSStatus) (*model.TPS, error) {
	if status != model.TPSStatusFull && status != model.TPSStatusNotFull {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	tps, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case principal.IsAdmin():
	case principal.IsOfficer():
		if tps.AssignedOfficerID == nil || *tps.AssignedOfficerID != principal.UserID {
			return nil, ErrPermissionDenied
		}
	default:
		return nil, ErrPermissionDenied
	}

	now := time.Now()
	if err := s.repo.UpdateStatus(ctx, id, status, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	tps.Status = status
	tps.LastUpdated = now
	return tps, nil
}

func (s *TPSService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateTPSInput(input TPSInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrInvalidInput)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrInvalidInput)
	}
	if input.Status != "" && input.Status != model.TPSStatusFull && input.Status != model.TPSStatusNotFull {
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	return nil
}
