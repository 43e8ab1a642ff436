package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// Ensure userService implements UserService
var _ driving.UserService = (*userService)(nil)

const minPasswordLength = 8

// userService implements the UserService interface
type userService struct {
	userStore   driven.UserStore
	authAdapter driven.AuthAdapter
}

// NewUserService creates a new UserService
func NewUserService(userStore driven.UserStore, authAdapter driven.AuthAdapter) driving.UserService {
	return &userService{
		userStore:   userStore,
		authAdapter: authAdapter,
	}
}

// Register creates a new account
func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	// Check if email already exists
	existing, err := s.userStore.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := s.authAdapter.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(req.FullName),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID
func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.userStore.Get(ctx, id)
}

// validateRegisterRequest validates the registration request
func validateRegisterRequest(req domain.RegisterRequest) error {
	if strings.TrimSpace(req.Email) == "" {
		return domain.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return domain.ErrInvalidInput
	}
	if len(req.Password) < minPasswordLength {
		return domain.ErrInvalidInput
	}
	return nil
}
