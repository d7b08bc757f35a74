package repositories

import (
	"context"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

// UserRepository defines the interface for credential data access
type UserRepository interface {
	// Create inserts a user; returns entities.ErrUserAlreadyExists when the username is taken
	Create(ctx context.Context, user *entities.User) error

	// FindByUsername finds a user by username; returns entities.ErrUserNotFound when absent
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}
