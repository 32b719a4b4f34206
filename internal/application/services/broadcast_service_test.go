package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/upravdom/resident-portal/internal/application/services"
	"github.com/upravdom/resident-portal/internal/domain/entities"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

func activeUsers(ids ...string) []*entities.User {
	users := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, &entities.User{ID: id, TelegramID: "tg-" + id, IsActive: true})
	}
	return users
}

func TestBroadcast_PartialFailureCounts(t *testing.T) {
	notifRepo := new(mockNotificationRepo)
	userRepo := new(mockUserRepo)
	gateway := new(mockGateway)
	svc := services.NewBroadcastService(notifRepo, userRepo, gateway)

	userRepo.On("ListActive", mock.Anything).Return(activeUsers("u1", "u2", "u3"), nil)

	gateway.On("Send", mock.Anything, "tg-u1", mock.Anything).Return(nil)
	gateway.On("Send", mock.Anything, "tg-u2", mock.Anything).Return(errors.New("chat not found"))
	gateway.On("Send", mock.Anything, "tg-u3", mock.Anything).Return(nil)

	var (
		mu    sync.Mutex
		saved []*entities.Notification
	)
	notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Notification")).
		Run(func(args mock.Arguments) {
			mu.Lock()
			saved = append(saved, args.Get(1).(*entities.Notification))
			mu.Unlock()
		}).
		Return(nil)

	result, err := svc.Broadcast(context.Background(), services.BroadcastInput{
		Title:   "Water shutdown",
		Message: "Cold water off 10:00-14:00",
		Target:  "all",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.SentCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 3, result.TotalCount)

	// One persisted row per recipient regardless of delivery outcome
	require.Len(t, saved, 3)
	failed := 0
	for _, n := range saved {
		assert.Equal(t, "Water shutdown", n.Title)
		if n.DeliveryStatus == entities.DeliveryFailed {
			failed++
			assert.Contains(t, n.DeliveryError, "chat not found")
		}
	}
	assert.Equal(t, 1, failed)
}

func TestBroadcast_TargetValidation(t *testing.T) {
	svc := services.NewBroadcastService(new(mockNotificationRepo), new(mockUserRepo), new(mockGateway))

	cases := []struct {
		name  string
		input services.BroadcastInput
	}{
		{"missing title", services.BroadcastInput{Message: "m", Target: "all"}},
		{"missing message", services.BroadcastInput{Title: "t", Target: "all"}},
		{"unknown target", services.BroadcastInput{Title: "t", Message: "m", Target: "planet"}},
		{"building without building", services.BroadcastInput{Title: "t", Message: "m", Target: "building"}},
		{"specific without users", services.BroadcastInput{Title: "t", Message: "m", Target: "specific"}},
		{"unknown severity", services.BroadcastInput{Title: "t", Message: "m", Target: "all", Severity: "loud"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Broadcast(context.Background(), tc.input)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestBroadcast_BuildingTargetResolvesBuilding(t *testing.T) {
	notifRepo := new(mockNotificationRepo)
	userRepo := new(mockUserRepo)
	gateway := new(mockGateway)
	svc := services.NewBroadcastService(notifRepo, userRepo, gateway)

	userRepo.On("ListActiveByBuilding", mock.Anything, "12A").Return(activeUsers("u1"), nil)
	gateway.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Broadcast(context.Background(), services.BroadcastInput{
		Title:    "Elevator maintenance",
		Message:  "Out of service tomorrow",
		Target:   "building",
		Building: "12A",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	userRepo.AssertNotCalled(t, "ListActive", mock.Anything)
}

func TestBroadcast_EmptyAudience(t *testing.T) {
	userRepo := new(mockUserRepo)
	svc := services.NewBroadcastService(new(mockNotificationRepo), userRepo, new(mockGateway))

	userRepo.On("ListActiveByIDs", mock.Anything, []string{"ghost"}).
		Return([]*entities.User{}, nil)

	result, err := svc.Broadcast(context.Background(), services.BroadcastInput{
		Title:   "t",
		Message: "m",
		Target:  "specific",
		UserIDs: []string{"ghost"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, 0, result.SentCount)
}

func TestBroadcast_NoGatewayRecordsFailures(t *testing.T) {
	notifRepo := new(mockNotificationRepo)
	userRepo := new(mockUserRepo)
	svc := services.NewBroadcastService(notifRepo, userRepo, nil)

	userRepo.On("ListActive", mock.Anything).Return(activeUsers("u1"), nil)

	var saved *entities.Notification
	notifRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*entities.Notification)
		}).
		Return(nil)

	result, err := svc.Broadcast(context.Background(), services.BroadcastInput{
		Title:   "t",
		Message: "m",
		Target:  "all",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedCount)
	require.NotNil(t, saved)
	assert.Equal(t, entities.DeliveryFailed, saved.DeliveryStatus)
}

func TestMarkRead_Delegates(t *testing.T) {
	notifRepo := new(mockNotificationRepo)
	svc := services.NewBroadcastService(notifRepo, new(mockUserRepo), new(mockGateway))

	notifRepo.On("MarkRead", mock.Anything, "n1", "u1").Return(nil)

	require.NoError(t, svc.MarkRead(context.Background(), "n1", "u1"))
	notifRepo.AssertExpectations(t)
}

func TestTestGateway_Unconfigured(t *testing.T) {
	svc := services.NewBroadcastService(new(mockNotificationRepo), new(mockUserRepo), nil)

	err := svc.TestGateway(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
