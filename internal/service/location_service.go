package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type LocationRepository interface {
	Upsert(ctx context.Context, location model.DriverLocation) error
	GetByDriver(ctx context.Context, driverID uuid.UUID) (*model.DriverLocation, error)
	ListSince(ctx context.Context, cutoff time.Time) ([]model.DriverLocation, error)
}

type LocationBroadcaster interface {
	Broadcast(location model.DriverLocation)
}

type LocationService struct {
	repo        LocationRepository
	broadcaster LocationBroadcaster
	staleAfter  time.Duration
}

func NewLocationService(repo LocationRepository, broadcaster LocationBroadcaster, staleAfter time.Duration) *LocationService {
	return &LocationService{repo: repo, broadcaster: broadcaster, staleAfter: staleAfter}
}

type LocationUpdateInput struct {
	ScheduleID *uuid.UUID
	Latitude   float64
	Longitude  float64
	SpeedKmh   *float64
	Heading    *float64
	Principal  model.Principal
}

// Update overwrites the driver's position and pushes it to live watchers.
func (s *LocationService) Update(ctx context.Context, input LocationUpdateInput) (*model.DriverLocation, error) {
	if !input.Principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return nil, fmt.Errorf("%w: latitude out of range", ErrInvalidInput)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return nil, fmt.Errorf("%w: longitude out of range", ErrInvalidInput)
	}

	location := model.DriverLocation{
		DriverID:   input.Principal.UserID,
		ScheduleID: input.ScheduleID,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		SpeedKmh:   input.SpeedKmh,
		Heading:    input.Heading,
		RecordedAt: time.Now(),
	}
	if err := s.repo.Upsert(ctx, location); err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(location)
	return &location, nil
}

// ListActive returns the drivers whose last report is within the staleness
// window.
func (s *LocationService) ListActive(ctx context.Context, principal model.Principal) ([]model.DriverLocation, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	cutoff := time.Now().Add(-s.staleAfter)
	return s.repo.ListSince(ctx, cutoff)
}
