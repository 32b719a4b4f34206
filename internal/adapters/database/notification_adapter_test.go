package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upravdom/resident-portal/internal/adapters/database"
	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/clients/postgres"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

func newNotificationAdapter(t *testing.T) (repositories.NotificationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return database.NewNotificationAdapter(postgres.NewClientFromDB(db)), mockDB
}

func TestNotificationCreate(t *testing.T) {
	adapter, mockDB := newNotificationAdapter(t)

	mockDB.ExpectExec(`INSERT INTO "notifications"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Create(context.Background(), &entities.Notification{
		ID:             "n1",
		RecipientID:    "u1",
		Title:          "Water shutdown",
		Message:        "Cold water off",
		Severity:       entities.SeverityWarning,
		Target:         entities.TargetAll,
		DeliveryStatus: entities.DeliverySent,
		SentAt:         time.Now(),
	})

	require.NoError(t, err)
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestMarkRead_GuardedAppend(t *testing.T) {
	adapter, mockDB := newNotificationAdapter(t)

	mockDB.ExpectExec(`UPDATE notifications`).
		WithArgs("u1", "n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.MarkRead(context.Background(), "n1", "u1"))
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestMarkRead_OnlyTouchesOwnRow(t *testing.T) {
	adapter, mockDB := newNotificationAdapter(t)

	// The update is scoped to the caller's recipient row, so marking a
	// notification addressed to someone else matches nothing.
	mockDB.ExpectExec(`(?s)UPDATE notifications.*WHERE id = \$2 AND recipient_id = \$1`).
		WithArgs("intruder", "n1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.MarkRead(context.Background(), "n1", "intruder")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestMarkRead_UnknownNotification(t *testing.T) {
	adapter, mockDB := newNotificationAdapter(t)

	mockDB.ExpectExec(`UPDATE notifications`).
		WithArgs("u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.MarkRead(context.Background(), "missing", "u1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestListByRecipient_ScansReadBySet(t *testing.T) {
	adapter, mockDB := newNotificationAdapter(t)

	rows := sqlmock.NewRows([]string{
		"id", "recipient_id", "title", "message", "severity", "target",
		"delivery_status", "delivery_error", "sent_at", "read_by",
	}).AddRow("n1", "u1", "t", "m", "info", "all", "sent", nil, time.Now(), "{u1,u2}")

	mockDB.ExpectQuery(`SELECT .* FROM "notifications"`).WillReturnRows(rows)

	notifications, err := adapter.ListByRecipient(context.Background(), "u1", 50)

	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].IsReadBy("u1"))
	assert.True(t, notifications[0].IsReadBy("u2"))
	assert.False(t, notifications[0].IsReadBy("u3"))
}
