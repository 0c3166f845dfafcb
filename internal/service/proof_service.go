package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluebin-id/bluebin-api/internal/model"
	"github.com/bluebin-id/bluebin-api/internal/repository"
)

type PhotoUploader interface {
	UploadPhoto(ctx context.Context, photo io.Reader, objectKey, contentType string) (string, error)
}

type ProofService struct {
	repo     ProofRepository
	uploader PhotoUploader
}

func NewProofService(repo ProofRepository, uploader PhotoUploader) *ProofService {
	return &ProofService{repo: repo, uploader: uploader}
}

type UploadPhotoInput struct {
	ScheduleID  uuid.UUID
	TPSID       uuid.UUID
	Photo       io.Reader
	ContentType string
	Principal   model.Principal
}

// UploadPhoto stores the pickup photo and returns its URL. The object key is
// derived from driver, schedule, TPS and capture time.
func (s *ProofService) UploadPhoto(ctx context.Context, input UploadPhotoInput) (string, error) {
	if !input.Principal.IsDriver() {
		return "", ErrPermissionDenied
	}
	if input.ScheduleID == uuid.Nil || input.TPSID == uuid.Nil {
		return "", fmt.Errorf("%w: schedule_id and tps_id are required", ErrInvalidInput)
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectKey := fmt.Sprintf("proofs/%s/%s/%s/%d.jpg",
		input.Principal.UserID, input.ScheduleID, input.TPSID, time.Now().UnixMilli())
	return s.uploader.UploadPhoto(ctx, input.Photo, objectKey, contentType)
}

func (s *ProofService) List(ctx context.Context, principal model.Principal, filter repository.ProofFilter) ([]model.Proof, error) {
	switch {
	case principal.IsAdmin():
	case principal.IsDriver():
		driverID := principal.UserID
		filter.DriverID = &driverID
	default:
		return nil, ErrPermissionDenied
	}
	return s.repo.List(ctx, filter)
}

// Verify marks a proof as checked. Admin only.
func (s *ProofService) Verify(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Proof, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := s.repo.Verify(ctx, id, principal.UserID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	proof, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return proof, nil
}
