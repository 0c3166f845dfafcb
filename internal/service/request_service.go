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

type RequestRepository interface {
	Create(ctx context.Context, request model.CollectionRequest) (*model.CollectionRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CollectionRequest, error)
	List(ctx context.Context, filter repository.RequestFilter) ([]model.CollectionRequest, error)
	HasOpenForTPS(ctx context.Context, tpsID uuid.UUID) (bool, error)
	Close(ctx context.Context, id uuid.UUID, at time.Time) error
}

type RequestService struct {
	repo RequestRepository
	tps  TPSRepository
}

func NewRequestService(repo RequestRepository, tps TPSRepository) *RequestService {
	return &RequestService{repo: repo, tps: tps}
}

type CreateRequestInput struct {
	TPSID     uuid.UUID
	Note      string
	Principal model.Principal
}

// Create files a pickup request. Officers may only request for their own TPS;
// a TPS with an unresolved request cannot be filed again.
func (s *RequestService) Create(ctx context.Context, input CreateRequestInput) (*model.CollectionRequest, error) {
	if !input.Principal.IsOfficer() && !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	tps, err := s.tps.GetByID(ctx, input.TPSID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if input.Principal.IsOfficer() {
		if tps.AssignedOfficerID == nil || *tps.AssignedOfficerID != input.Principal.UserID {
			return nil, ErrPermissionDenied
		}
	}

	open, err := s.repo.HasOpenForTPS(ctx, input.TPSID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, fmt.Errorf("%w: tps already has an unresolved request", ErrInvalidInput)
	}

	return s.repo.Create(ctx, model.CollectionRequest{
		TPSID:       input.TPSID,
		RequestedBy: input.Principal.UserID,
		Note:        strings.TrimSpace(input.Note),
	})
}

func (s *RequestService) List(ctx context.Context, principal model.Principal, filter repository.RequestFilter) ([]model.CollectionRequest, error) {
	switch {
	case principal.IsAdmin():
	case principal.IsOfficer():
		requestedBy := principal.UserID
		filter.RequestedBy = &requestedBy
	default:
		return nil, ErrPermissionDenied
	}
	return s.repo.List(ctx, filter)
}

func (s *RequestService) Close(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.CollectionRequest, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := s.repo.Close(ctx, id, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
