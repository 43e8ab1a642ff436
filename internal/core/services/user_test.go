package services

import (
	"context"
	"testing"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven/mocks"
)

func TestUserService_Register(t *testing.T) {
	userStore := mocks.NewMockUserStore()
	svc := NewUserService(userStore, mocks.NewMockAuthAdapter())
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{
		Email:    " New.User@Example.com ",
		Password: "correct-horse",
		FullName: " New User ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if user.Email != "new.user@example.com" {
		t.Errorf("expected normalised email, got %s", user.Email)
	}
	if user.FullName != "New User" {
		t.Errorf("expected trimmed name, got %q", user.FullName)
	}
	if !user.Active {
		t.Error("expected new user to be active")
	}
	if user.PasswordHash != "correct-horse" {
		t.Error("expected password to be hashed through the auth adapter")
	}

	got, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("expected %s, got %s", user.Email, got.Email)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{"empty email", domain.RegisterRequest{Email: "", Password: "long-enough"}},
		{"bad email", domain.RegisterRequest{Email: "not-an-email", Password: "long-enough"}},
		{"short password", domain.RegisterRequest{Email: "a@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(mocks.NewMockUserStore(), mocks.NewMockAuthAdapter())
			if _, err := svc.Register(context.Background(), tt.req); err != domain.ErrInvalidInput {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc := NewUserService(mocks.NewMockUserStore(), mocks.NewMockAuthAdapter())
	ctx := context.Background()

	req := domain.RegisterRequest{Email: "dup@example.com", Password: "password123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Email = "DUP@example.com"
	if _, err := svc.Register(ctx, req); err != domain.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc := NewUserService(mocks.NewMockUserStore(), mocks.NewMockAuthAdapter())

	if _, err := svc.Get(context.Background(), 404); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
