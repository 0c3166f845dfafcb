package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

func TestTPSCreateRequiresAdmin(t *testing.T) {
	svc := NewTPSService(&fakeTPSRepo{})
	officer := model.Principal{UserID: uuid.New(), Role: model.RoleTPSOfficer}

	_, err := svc.Create(context.Background(), officer, TPSInput{Name: "TPS Melati", Latitude: -6.2, Longitude: 106.8})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestTPSCreateDefaultsToNotFull(t *testing.T) {
	svc := NewTPSService(&fakeTPSRepo{})
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	tps, err := svc.Create(context.Background(), admin, TPSInput{Name: " TPS Melati ", Latitude: -6.2, Longitude: 106.8})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tps.Status != model.TPSStatusNotFull {
		t.Errorf("status = %s, want %s", tps.Status, model.TPSStatusNotFull)
	}
	if tps.Name != "TPS Melati" {
		t.Errorf("name = %q, want trimmed", tps.Name)
	}
}

func TestTPSCreateValidatesCoordinates(t *testing.T) {
	svc := NewTPSService(&fakeTPSRepo{})
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	cases := []TPSInput{
		{Name: "TPS Melati", Latitude: 91, Longitude: 106.8},
		{Name: "TPS Melati", Latitude: -6.2, Longitude: 181},
		{Name: "", Latitude: -6.2, Longitude: 106.8},
		{Name: "TPS Melati", Latitude: -6.2, Longitude: 106.8, Status: "KOSONG"},
	}
	for _, input := range cases {
		if _, err := svc.Create(context.Background(), admin, input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("input %+v: err = %v, want ErrInvalidInput", input, err)
		}
	}
}

func TestTPSUpdateStatusOfficerOwnOnly(t *testing.T) {
	repo := &fakeTPSRepo{}
	svc := NewTPSService(repo)

	officerID := uuid.New()
	mine, _ := repo.Create(context.Background(), model.TPS{Name: "TPS Melati", Status: model.TPSStatusNotFull, AssignedOfficerID: &officerID})
	theirs, _ := repo.Create(context.Background(), model.TPS{Name: "TPS Kenanga", Status: model.TPSStatusNotFull})

	officer := model.Principal{UserID: officerID, Role: model.RoleTPSOfficer}

	updated, err := svc.UpdateStatus(context.Background(), officer, mine.ID, model.TPSStatusFull)
	if err != nil {
		t.Fatalf("update own tps: %v", err)
	}
	if updated.Status != model.TPSStatusFull {
		t.Errorf("status = %s, want %s", updated.Status, model.TPSStatusFull)
	}

	if _, err := svc.UpdateStatus(context.Background(), officer, theirs.ID, model.TPSStatusFull); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied for unassigned tps", err)
	}
}

func TestTPSUpdateStatusAdminAnyTPS(t *testing.T) {
	repo := &fakeTPSRepo{}
	svc := NewTPSService(repo)
	tps, _ := repo.Create(context.Background(), model.TPS{Name: "TPS Melati", Status: model.TPSStatusFull})

	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	updated, err := svc.UpdateStatus(context.Background(), admin, tps.ID, model.TPSStatusNotFull)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.TPSStatusNotFull {
		t.Errorf("status = %s, want %s", updated.Status, model.TPSStatusNotFull)
	}
}

func TestTPSUpdateStatusRejectsDriversAndBadStatus(t *testing.T) {
	repo := &fakeTPSRepo{}
	svc := NewTPSService(repo)
	tps, _ := repo.Create(context.Background(), model.TPS{Name: "TPS Melati", Status: model.TPSStatusNotFull})

	driver := model.Principal{UserID: uuid.New(), Role: model.RoleDriver}
	if _, err := svc.UpdateStatus(context.Background(), driver, tps.ID, model.TPSStatusFull); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied for drivers", err)
	}

	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	if _, err := svc.UpdateStatus(context.Background(), admin, tps.ID, "KOSONG"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput for unknown status", err)
	}
}

func TestTPSGetNotFound(t *testing.T) {
	svc := NewTPSService(&fakeTPSRepo{})
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
