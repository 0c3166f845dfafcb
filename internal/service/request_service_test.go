package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/model"
	"github.com/bluebin-id/bluebin-api/internal/repository"
)

func TestRequestCreateOfficerOwnTPSOnly(t *testing.T) {
	tpsRepo := &fakeTPSRepo{}
	requests := &fakeRequestRepo{}
	svc := NewRequestService(requests, tpsRepo)

	officerID := uuid.New()
	mine, _ := tpsRepo.Create(context.Background(), model.TPS{Name: "TPS Melati", AssignedOfficerID: &officerID})
	theirs, _ := tpsRepo.Create(context.Background(), model.TPS{Name: "TPS Kenanga"})

	officer := model.Principal{UserID: officerID, Role: model.RoleTPSOfficer}

	request, err := svc.Create(context.Background(), CreateRequestInput{TPSID: mine.ID, Note: " bin overflowing ", Principal: officer})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if request.Status != model.RequestStatusOpen {
		t.Errorf("status = %s, want %s", request.Status, model.RequestStatusOpen)
	}
	if request.Note != "bin overflowing" {
		t.Errorf("note = %q, want trimmed", request.Note)
	}

	if _, err := svc.Create(context.Background(), CreateRequestInput{TPSID: theirs.ID, Principal: officer}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied for unassigned tps", err)
	}
}

func TestRequestCreateDeduplicatesOpenRequests(t *testing.T) {
	tpsRepo := &fakeTPSRepo{}
	requests := &fakeRequestRepo{}
	svc := NewRequestService(requests, tpsRepo)

	tps, _ := tpsRepo.Create(context.Background(), model.TPS{Name: "TPS Melati"})
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	if _, err := svc.Create(context.Background(), CreateRequestInput{TPSID: tps.ID, Principal: admin}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateRequestInput{TPSID: tps.ID, Principal: admin}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput for duplicate open request", err)
	}
}

func TestRequestCreateDriverDenied(t *testing.T) {
	tpsRepo := &fakeTPSRepo{}
	svc := NewRequestService(&fakeRequestRepo{}, tpsRepo)
	tps, _ := tpsRepo.Create(context.Background(), model.TPS{Name: "TPS Melati"})

	driver := model.Principal{UserID: uuid.New(), Role: model.RoleDriver}
	if _, err := svc.Create(context.Background(), CreateRequestInput{TPSID: tps.ID, Principal: driver}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestRequestListScopesOfficersToOwnRequests(t *testing.T) {
	tpsRepo := &fakeTPSRepo{}
	requests := &fakeRequestRepo{}
	svc := NewRequestService(requests, tpsRepo)

	officerID := uuid.New()
	otherID := uuid.New()
	requests.Create(context.Background(), model.CollectionRequest{TPSID: uuid.New(), RequestedBy: officerID})
	requests.Create(context.Background(), model.CollectionRequest{TPSID: uuid.New(), RequestedBy: otherID})

	officer := model.Principal{UserID: officerID, Role: model.RoleTPSOfficer}
	listed, err := svc.List(context.Background(), officer, repository.RequestFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].RequestedBy != officerID {
		t.Errorf("officer sees %d requests, want only their own", len(listed))
	}

	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	listed, err = svc.List(context.Background(), admin, repository.RequestFilter{})
	if err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("admin sees %d requests, want 2", len(listed))
	}
}

func TestRequestCloseAdminOnly(t *testing.T) {
	tpsRepo := &fakeTPSRepo{}
	requests := &fakeRequestRepo{}
	svc := NewRequestService(requests, tpsRepo)

	created, _ := requests.Create(context.Background(), model.CollectionRequest{TPSID: uuid.New(), RequestedBy: uuid.New()})

	officer := model.Principal{UserID: uuid.New(), Role: model.RoleTPSOfficer}
	if _, err := svc.Close(context.Background(), officer, created.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}

	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	closed, err := svc.Close(context.Background(), admin, created.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != model.RequestStatusClosed {
		t.Errorf("status = %s, want %s", closed.Status, model.RequestStatusClosed)
	}
	if closed.ResolvedAt == nil {
		t.Error("resolved_at not set")
	}
}
