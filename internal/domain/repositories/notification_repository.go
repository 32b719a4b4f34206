package repositories

import (
	"context"
	"time"

	"github.com/upravdom/resident-portal/internal/domain/entities"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create persists one per-recipient notification row
	Create(ctx context.Context, notification *entities.Notification) error

	// ListByRecipient retrieves a recipient's notifications, newest first
	ListByRecipient(ctx context.Context, userID string, limit int) ([]*entities.Notification, error)

	// MarkRead adds userID to the notification's read-by set if absent
	MarkRead(ctx context.Context, id, userID string) error

	// CountSince counts notifications sent at or after the given time
	CountSince(ctx context.Context, since time.Time) (int, error)

	// Count counts all notifications
	Count(ctx context.Context) (int, error)
}
