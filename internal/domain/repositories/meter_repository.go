package repositories

import (
	"context"
	"time"

	"github.com/upravdom/resident-portal/internal/domain/entities"
)

// ReadingFilter narrows administrative reading listings. From and To are
// inclusive; both are interpreted as start-of-day bounds.
type ReadingFilter struct {
	Kind   entities.MeterKind
	UserID string
	From   *time.Time
	To     *time.Time
}

// MeterReadingRepository defines the interface for the reading ledger
type MeterReadingRepository interface {
	// Create appends a reading to the ledger
	Create(ctx context.Context, reading *entities.MeterReading) error

	// GetByID retrieves a reading by ID
	GetByID(ctx context.Context, id string) (*entities.MeterReading, error)

	// Update persists the verification state of a reading
	Update(ctx context.Context, reading *entities.MeterReading) error

	// Latest returns the most recent reading for a (user, kind) pair,
	// or nil when the chain is empty
	Latest(ctx context.Context, userID string, kind entities.MeterKind) (*entities.MeterReading, error)

	// ListByUser retrieves a user's readings, most recent first
	ListByUser(ctx context.Context, userID string) ([]*entities.MeterReading, error)

	// List retrieves readings matching the filter, most recent first
	List(ctx context.Context, filter ReadingFilter) ([]*entities.MeterReading, error)
}
