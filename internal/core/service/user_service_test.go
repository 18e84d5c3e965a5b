package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

func newTestUserService(users *stubUserRepo, roles *stubRoleRepo) *UserService {
	return NewUserService(users, newTestValidator(users, roles), zerolog.Nop())
}

func TestUserService_Create_Persists(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestUserService(users, newStubRoleRepo(domain.RoleUser))

	created, err := svc.Create(context.Background(), ports.UserPatch{
		Name:     "Antonia",
		Username: "antonia",
		Email:    "antonia@mail.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be assigned")
	}

	stored, err := users.FindByUsername(context.Background(), "antonia")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.RoleName != domain.RoleUser || stored.PasswordHash != "hashed:password1" {
		t.Fatalf("unexpected stored user: %+v", stored)
	}
}

func TestUserService_Create_ValidationErrorsNotPersisted(t *testing.T) {
	users := newStubUserRepo(alice())
	svc := newTestUserService(users, newStubRoleRepo(domain.RoleUser))

	_, err := svc.Create(context.Background(), ports.UserPatch{Name: "x", Username: "alice", Email: "new@example.com", Password: "secret1"})
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if all, _ := users.List(context.Background(), ports.UserFilter{}); len(all) != 1 {
		t.Fatalf("expected store unchanged, got %d users", len(all))
	}
}

func TestUserService_UpdateSelf_IgnoresRole(t *testing.T) {
	users := newStubUserRepo(alice())
	svc := newTestUserService(users, newStubRoleRepo(domain.RoleAdmin, domain.RoleUser))

	updated, err := svc.UpdateSelf(context.Background(), "1", ports.UserPatch{
		Name:     "Alice Liddell",
		Password: "newsecret",
		RoleName: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("UpdateSelf: %v", err)
	}
	if updated.RoleName != domain.RoleUser {
		t.Fatalf("self update must not change role, got %q", updated.RoleName)
	}
	if updated.PasswordHash != "hashed:newsecret" || updated.Name != "Alice Liddell" {
		t.Fatalf("unexpected user: %+v", updated)
	}
}

func TestUserService_UpdateByAdmin_IgnoresPassword(t *testing.T) {
	users := newStubUserRepo(alice())
	svc := newTestUserService(users, newStubRoleRepo(domain.RoleAdmin, domain.RoleUser))

	updated, err := svc.UpdateByAdmin(context.Background(), "1", ports.UserPatch{
		Password: "x",
		RoleName: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("UpdateByAdmin: %v", err)
	}
	if updated.RoleName != domain.RoleAdmin {
		t.Fatalf("expected role ADMIN, got %q", updated.RoleName)
	}
	if updated.PasswordHash != "hashed:original" {
		t.Fatalf("admin update must not change password, got %q", updated.PasswordHash)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubRoleRepo(domain.RoleUser))

	_, err := svc.UpdateByAdmin(context.Background(), "404", ports.UserPatch{Name: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	users := newStubUserRepo(alice(), bob())
	svc := newTestUserService(users, newStubRoleRepo(domain.RoleUser))

	deleted, err := svc.Delete(context.Background(), "2")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Username != "bob" {
		t.Fatalf("expected deleted user bob, got %+v", deleted)
	}
	if _, err := users.FindByID(context.Background(), "2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}

	_, err = svc.Delete(context.Background(), "2")
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Message != "User not found with id: 2" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
