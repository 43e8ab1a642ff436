package driving

import (
	"context"

	"github.com/edutech/edutech-core/internal/core/domain"
)

// UserService manages learner accounts
type UserService interface {
	// Register creates a new account
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id int64) (*domain.User, error)
}
