package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

func TestRegisterCreatesUnapprovedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakeIssuer{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Budi Santoso",
		Email:    "Budi@BlueBin.ID",
		Password: "angkut-sampah-1",
		Role:     model.RoleDriver,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Approved {
		t.Error("new accounts must start unapproved")
	}
	if user.Email != "budi@bluebin.id" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash == "angkut-sampah-1" {
		t.Error("password stored in plain text")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakeIssuer{})

	input := RegisterInput{Name: "Budi", Email: "budi@bluebin.id", Password: "angkut-sampah-1", Role: model.RoleDriver}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), fakeIssuer{})
	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Budi",
		Email:    "budi@bluebin.id",
		Password: "angkut-sampah-1",
		Role:     "SUPERVISOR",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLoginRejectsUnapprovedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakeIssuer{})

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Budi",
		Email:    "budi@bluebin.id",
		Password: "angkut-sampah-1",
		Role:     model.RoleDriver,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "budi@bluebin.id", "angkut-sampah-1"); !errors.Is(err, ErrNotApproved) {
		t.Errorf("err = %v, want ErrNotApproved", err)
	}
}

func TestLoginAfterApproval(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakeIssuer{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Budi",
		Email:    "budi@bluebin.id",
		Password: "angkut-sampah-1",
		Role:     model.RoleDriver,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	if err := svc.Approve(context.Background(), admin, user.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	result, err := svc.Login(context.Background(), "budi@bluebin.id", "angkut-sampah-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Error("login should issue a token")
	}
	if result.User.ID != user.ID {
		t.Error("login returned a different user")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakeIssuer{})

	user, _ := svc.Register(context.Background(), RegisterInput{
		Name:     "Budi",
		Email:    "budi@bluebin.id",
		Password: "angkut-sampah-1",
		Role:     model.RoleDriver,
	})
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	svc.Approve(context.Background(), admin, user.ID)

	if _, err := svc.Login(context.Background(), "budi@bluebin.id", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@bluebin.id", "angkut-sampah-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials for unknown email", err)
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakeIssuer{})
	user, _ := repo.Create(context.Background(), model.User{Name: "Budi", Email: "budi@bluebin.id", Role: model.RoleDriver})

	officer := model.Principal{UserID: uuid.New(), Role: model.RoleTPSOfficer}
	if err := svc.Approve(context.Background(), officer, user.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestDeleteOwnAccountFails(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakeIssuer{})
	admin, _ := repo.Create(context.Background(), model.User{Name: "Admin", Email: "admin@bluebin.id", Role: model.RoleAdmin, Approved: true})

	principal := model.Principal{UserID: admin.ID, Role: model.RoleAdmin}
	if err := svc.Delete(context.Background(), principal, admin.ID); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
