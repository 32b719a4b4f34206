package services_test

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/upravdom/resident-portal/internal/application/services"
	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

func floatPtr(v float64) *float64 { return &v }

func TestSubmitReading_FirstReadingHasNoHistory(t *testing.T) {
	repo := new(mockMeterRepo)
	svc := services.NewMeterService(repo, nil)

	repo.On("Latest", mock.Anything, "u1", entities.MeterColdWater).Return(nil, nil)

	var saved *entities.MeterReading
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.MeterReading")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*entities.MeterReading)
		}).
		Return(nil)

	reading, err := svc.SubmitReading(context.Background(), "u1", services.SubmitReadingInput{
		Kind:  "cold_water",
		Value: floatPtr(100),
	})

	require.NoError(t, err)
	assert.Nil(t, reading.PreviousValue)
	assert.Nil(t, reading.Consumption)
	assert.Equal(t, 100.0, saved.Value)
}

func TestSubmitReading_ChainsFromLatest(t *testing.T) {
	repo := new(mockMeterRepo)
	svc := services.NewMeterService(repo, nil)

	repo.On("Latest", mock.Anything, "u1", entities.MeterElectricity).
		Return(&entities.MeterReading{Value: 950}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	reading, err := svc.SubmitReading(context.Background(), "u1", services.SubmitReadingInput{
		Kind:  "electricity",
		Value: floatPtr(1000),
	})

	require.NoError(t, err)
	require.NotNil(t, reading.PreviousValue)
	require.NotNil(t, reading.Consumption)
	assert.Equal(t, 950.0, *reading.PreviousValue)
	assert.Equal(t, 50.0, *reading.Consumption)
}

func TestSubmitReading_ZeroPreviousStillYieldsConsumption(t *testing.T) {
	repo := new(mockMeterRepo)
	svc := services.NewMeterService(repo, nil)

	repo.On("Latest", mock.Anything, "u1", entities.MeterGas).
		Return(&entities.MeterReading{Value: 0}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	reading, err := svc.SubmitReading(context.Background(), "u1", services.SubmitReadingInput{
		Kind:  "gas",
		Value: floatPtr(5),
	})

	require.NoError(t, err)
	require.NotNil(t, reading.PreviousValue)
	require.NotNil(t, reading.Consumption)
	assert.Equal(t, 0.0, *reading.PreviousValue)
	assert.Equal(t, 5.0, *reading.Consumption)
}

func TestSubmitReading_Validation(t *testing.T) {
	repo := new(mockMeterRepo)
	svc := services.NewMeterService(repo, nil)

	cases := []struct {
		name  string
		input services.SubmitReadingInput
	}{
		{"unknown kind", services.SubmitReadingInput{Kind: "plasma", Value: floatPtr(1)}},
		{"missing value", services.SubmitReadingInput{Kind: "gas"}},
		{"negative value", services.SubmitReadingInput{Kind: "gas", Value: floatPtr(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitReading(context.Background(), "u1", tc.input)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReading_PhotoFailureStillSavesReading(t *testing.T) {
	repo := new(mockMeterRepo)
	store := new(mockPhotoStore)
	svc := services.NewMeterService(repo, store)

	repo.On("Latest", mock.Anything, "u1", entities.MeterHotWater).Return(nil, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	store.On("Save", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	photo := base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))
	reading, err := svc.SubmitReading(context.Background(), "u1", services.SubmitReadingInput{
		Kind:      "hot_water",
		Value:     floatPtr(12),
		PhotoData: photo,
	})

	require.NoError(t, err)
	assert.Empty(t, reading.PhotoPath)
}

func TestSubmitReading_DataURLPhoto(t *testing.T) {
	repo := new(mockMeterRepo)
	store := new(mockPhotoStore)
	svc := services.NewMeterService(repo, store)

	repo.On("Latest", mock.Anything, "u1", entities.MeterHotWater).Return(nil, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	raw := []byte("jpeg bytes")
	store.On("Save", mock.Anything, mock.Anything, raw).Return(nil)

	photo := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)
	reading, err := svc.SubmitReading(context.Background(), "u1", services.SubmitReadingInput{
		Kind:      "hot_water",
		Value:     floatPtr(12),
		PhotoData: photo,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, reading.PhotoPath)
	store.AssertExpectations(t)
}

func TestVerifyReading_StampsVerifier(t *testing.T) {
	repo := new(mockMeterRepo)
	svc := services.NewMeterService(repo, nil)

	repo.On("GetByID", mock.Anything, "r1").
		Return(&entities.MeterReading{ID: "r1"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	admin := &entities.User{ID: "a1", FirstName: "Ivan", LastName: "Orlov", IsAdmin: true}
	reading, err := svc.VerifyReading(context.Background(), "r1", admin)

	require.NoError(t, err)
	assert.True(t, reading.IsVerified)
	assert.Equal(t, "Ivan Orlov", reading.VerifiedByName)
	assert.NotNil(t, reading.VerifiedAt)
}

func TestVerifyReading_RepeatRestampsButStaysVerified(t *testing.T) {
	repo := new(mockMeterRepo)
	svc := services.NewMeterService(repo, nil)

	repo.On("GetByID", mock.Anything, "r1").
		Return(&entities.MeterReading{ID: "r1", IsVerified: true, VerifiedByName: "Old Admin"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	admin := &entities.User{ID: "a2", FirstName: "New", LastName: "Admin"}
	reading, err := svc.VerifyReading(context.Background(), "r1", admin)

	require.NoError(t, err)
	assert.True(t, reading.IsVerified)
	assert.Equal(t, "New Admin", reading.VerifiedByName)
}

func TestListForUser_GroupsByKind(t *testing.T) {
	repo := new(mockMeterRepo)
	svc := services.NewMeterService(repo, nil)

	repo.On("ListByUser", mock.Anything, "u1").Return([]*entities.MeterReading{
		{ID: "1", Kind: entities.MeterGas},
		{ID: "2", Kind: entities.MeterColdWater},
		{ID: "3", Kind: entities.MeterGas},
	}, nil)

	grouped, err := svc.ListForUser(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, grouped[entities.MeterGas], 2)
	assert.Len(t, grouped[entities.MeterColdWater], 1)
}

func TestListAll_RejectsUnknownKind(t *testing.T) {
	svc := services.NewMeterService(new(mockMeterRepo), nil)

	_, err := svc.ListAll(context.Background(), repositories.ReadingFilter{Kind: "plasma"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

// memoryChainRepo is a minimal in-memory ledger so concurrent submissions
// run against a real Latest/Create sequence instead of canned expectations.
type memoryChainRepo struct {
	mu       sync.Mutex
	readings []*entities.MeterReading
}

func (r *memoryChainRepo) Create(ctx context.Context, reading *entities.MeterReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, reading)
	return nil
}

func (r *memoryChainRepo) Latest(ctx context.Context, userID string, kind entities.MeterKind) (*entities.MeterReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.readings) - 1; i >= 0; i-- {
		if r.readings[i].UserID == userID && r.readings[i].Kind == kind {
			return r.readings[i], nil
		}
	}
	return nil, nil
}

func (r *memoryChainRepo) GetByID(ctx context.Context, id string) (*entities.MeterReading, error) {
	return nil, nil
}

func (r *memoryChainRepo) Update(ctx context.Context, reading *entities.MeterReading) error {
	return nil
}

func (r *memoryChainRepo) ListByUser(ctx context.Context, userID string) ([]*entities.MeterReading, error) {
	return nil, nil
}

func (r *memoryChainRepo) List(ctx context.Context, filter repositories.ReadingFilter) ([]*entities.MeterReading, error) {
	return nil, nil
}

func TestSubmitReading_ConcurrentSubmissionsNeverShareAPrevious(t *testing.T) {
	repo := &memoryChainRepo{}
	svc := services.NewMeterService(repo, nil)

	const submissions = 50
	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(value float64) {
			defer wg.Done()
			_, err := svc.SubmitReading(context.Background(), "u1", services.SubmitReadingInput{
				Kind:  string(entities.MeterElectricity),
				Value: floatPtr(value),
			})
			assert.NoError(t, err)
		}(float64(100 + i))
	}
	wg.Wait()

	require.Len(t, repo.readings, submissions)

	seen := make(map[float64]bool)
	withoutHistory := 0
	for _, reading := range repo.readings {
		if reading.PreviousValue == nil {
			withoutHistory++
			continue
		}
		assert.False(t, seen[*reading.PreviousValue],
			"previous value %v derived by two submissions", *reading.PreviousValue)
		seen[*reading.PreviousValue] = true
	}
	assert.Equal(t, 1, withoutHistory, "only the chain head may lack history")
}
