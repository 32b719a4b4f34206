package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepo) GetByTelegramID(ctx context.Context, telegramID string) (*entities.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) ListActive(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserRepo) ListActiveByBuilding(ctx context.Context, building string) ([]*entities.User, error) {
	args := m.Called(ctx, building)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserRepo) ListActiveByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

type mockMeterRepo struct {
	mock.Mock
}

func (m *mockMeterRepo) Create(ctx context.Context, reading *entities.MeterReading) error {
	return m.Called(ctx, reading).Error(0)
}

func (m *mockMeterRepo) GetByID(ctx context.Context, id string) (*entities.MeterReading, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MeterReading), args.Error(1)
}

func (m *mockMeterRepo) Update(ctx context.Context, reading *entities.MeterReading) error {
	return m.Called(ctx, reading).Error(0)
}

func (m *mockMeterRepo) Latest(ctx context.Context, userID string, kind entities.MeterKind) (*entities.MeterReading, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MeterReading), args.Error(1)
}

func (m *mockMeterRepo) ListByUser(ctx context.Context, userID string) ([]*entities.MeterReading, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MeterReading), args.Error(1)
}

func (m *mockMeterRepo) List(ctx context.Context, filter repositories.ReadingFilter) ([]*entities.MeterReading, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MeterReading), args.Error(1)
}

type mockComplaintRepo struct {
	mock.Mock
}

func (m *mockComplaintRepo) Create(ctx context.Context, complaint *entities.Complaint) error {
	return m.Called(ctx, complaint).Error(0)
}

func (m *mockComplaintRepo) GetByID(ctx context.Context, id string) (*entities.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) Update(ctx context.Context, complaint *entities.Complaint) error {
	return m.Called(ctx, complaint).Error(0)
}

func (m *mockComplaintRepo) ListByUser(ctx context.Context, userID string) ([]*entities.Complaint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Complaint), args.Error(1)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *entities.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *mockNotificationRepo) ListByRecipient(ctx context.Context, userID string, limit int) ([]*entities.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockNotificationRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) ListMeterTypes(ctx context.Context) ([]*entities.MeterType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MeterType), args.Error(1)
}

func (m *mockCatalogRepo) ListComplaintCategories(ctx context.Context) ([]*entities.ComplaintCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ComplaintCategory), args.Error(1)
}

func (m *mockCatalogRepo) InsertMeterTypeIfAbsent(ctx context.Context, mt *entities.MeterType) error {
	return m.Called(ctx, mt).Error(0)
}

func (m *mockCatalogRepo) InsertComplaintCategoryIfAbsent(ctx context.Context, cat *entities.ComplaintCategory) error {
	return m.Called(ctx, cat).Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Send(ctx context.Context, chatID, text string) error {
	return m.Called(ctx, chatID, text).Error(0)
}

func (m *mockGateway) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPhotoStore struct {
	mock.Mock
}

func (m *mockPhotoStore) Save(ctx context.Context, name string, data []byte) error {
	return m.Called(ctx, name, data).Error(0)
}
