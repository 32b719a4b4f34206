package repositories

import (
	"context"

	"github.com/upravdom/resident-portal/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByTelegramID retrieves a user by the stable external identity
	GetByTelegramID(ctx context.Context, telegramID string) (*entities.User, error)

	// Update updates a user
	Update(ctx context.Context, user *entities.User) error

	// ListActive retrieves all active users
	ListActive(ctx context.Context) ([]*entities.User, error)

	// ListActiveByBuilding retrieves active users at a given building
	ListActiveByBuilding(ctx context.Context, building string) ([]*entities.User, error)

	// ListActiveByIDs retrieves the active subset of the given users
	ListActiveByIDs(ctx context.Context, ids []string) ([]*entities.User, error)
}
