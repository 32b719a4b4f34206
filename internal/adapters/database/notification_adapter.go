package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/clients/postgres"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

var notificationColumns = []interface{}{
	"id", "recipient_id", "title", "message", "severity", "target",
	"delivery_status", "delivery_error", "sent_at", "read_by",
}

// NotificationAdapter implements notification persistence in Postgres.
// The read_by column is a text[] treated as a set.
type NotificationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewNotificationAdapter creates a new notification adapter
func NewNotificationAdapter(client *postgres.Client) repositories.NotificationRepository {
	return &NotificationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists one per-recipient notification row
func (a *NotificationAdapter) Create(ctx context.Context, n *entities.Notification) error {
	readBy := n.ReadBy
	if readBy == nil {
		readBy = []string{}
	}

	record := goqu.Record{
		"id":              n.ID,
		"recipient_id":    n.RecipientID,
		"title":           n.Title,
		"message":         n.Message,
		"severity":        string(n.Severity),
		"target":          string(n.Target),
		"delivery_status": string(n.DeliveryStatus),
		"delivery_error":  nullString(n.DeliveryError),
		"sent_at":         n.SentAt,
		"read_by":         pq.Array(readBy),
	}

	query, args, err := a.db.Insert("notifications").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build notification insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create notification", err)
	}

	return nil
}

// ListByRecipient retrieves a recipient's notifications, newest first
func (a *NotificationAdapter) ListByRecipient(ctx context.Context, userID string, limit int) ([]*entities.Notification, error) {
	ds := a.db.Select(notificationColumns...).From("notifications").
		Where(goqu.Ex{"recipient_id": userID}).
		Order(goqu.I("sent_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build notification list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}
	defer rows.Close()

	var notifications []*entities.Notification
	for rows.Next() {
		n := &entities.Notification{}
		var severity, target, deliveryStatus string
		var deliveryError sql.NullString
		var readBy pq.StringArray

		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.Title,
			&n.Message,
			&severity,
			&target,
			&deliveryStatus,
			&deliveryError,
			&n.SentAt,
			&readBy,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan notification", err)
		}

		n.Severity = entities.NotificationSeverity(severity)
		n.Target = entities.NotificationTarget(target)
		n.DeliveryStatus = entities.DeliveryStatus(deliveryStatus)
		n.DeliveryError = deliveryError.String
		n.ReadBy = []string(readBy)

		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead adds userID to the notification's read-by set. A user already
// in the set leaves the row unchanged; the operation is idempotent. The
// update only touches the caller's own row, so a notification addressed
// to someone else reports not found.
func (a *NotificationAdapter) MarkRead(ctx context.Context, id, userID string) error {
	query := `
		UPDATE notifications
		SET read_by = CASE
			WHEN $1 = ANY(read_by) THEN read_by
			ELSE array_append(read_by, $1)
		END
		WHERE id = $2 AND recipient_id = $1`

	result, err := a.client.DB().ExecContext(ctx, query, userID, id)
	if err != nil {
		return apperrors.NewInternalError("failed to mark notification read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("notification with id %s not found", id))
	}

	return nil
}

// CountSince counts notifications sent at or after the given time
func (a *NotificationAdapter) CountSince(ctx context.Context, since time.Time) (int, error) {
	return a.count(ctx, a.db.From("notifications").Where(goqu.C("sent_at").Gte(since)))
}

// Count counts all notifications
func (a *NotificationAdapter) Count(ctx context.Context) (int, error) {
	return a.count(ctx, a.db.From("notifications"))
}

func (a *NotificationAdapter) count(ctx context.Context, ds *goqu.SelectDataset) (int, error) {
	query, args, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build notification count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count notifications", err)
	}

	return count, nil
}
