package repositories

import (
	"context"

	"github.com/upravdom/resident-portal/internal/domain/entities"
)

// ComplaintRepository defines the interface for complaint operations
type ComplaintRepository interface {
	// Create creates a new complaint
	Create(ctx context.Context, complaint *entities.Complaint) error

	// GetByID retrieves a complaint by ID
	GetByID(ctx context.Context, id string) (*entities.Complaint, error)

	// Update updates a complaint
	Update(ctx context.Context, complaint *entities.Complaint) error

	// ListByUser retrieves a user's complaints, most recent first
	ListByUser(ctx context.Context, userID string) ([]*entities.Complaint, error)
}
