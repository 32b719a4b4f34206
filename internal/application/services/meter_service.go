package services

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/providers"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/observability"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

// SubmitReadingInput carries one reading submission. Value is a pointer so
// a missing value and an explicit zero are distinguishable.
type SubmitReadingInput struct {
	Kind      string   `json:"meter_type"`
	Value     *float64 `json:"value"`
	Notes     string   `json:"notes"`
	PhotoData string   `json:"photo_data,omitempty"`
}

// chainLocks serializes submissions per (user, kind) chain so two
// concurrent submissions cannot read the same previous value.
type chainLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newChainLocks() *chainLocks {
	return &chainLocks{locks: make(map[string]*sync.Mutex)}
}

func (c *chainLocks) get(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// MeterService manages the per-(user, kind) reading ledgers
type MeterService struct {
	meterRepo  repositories.MeterReadingRepository
	photoStore providers.PhotoStore
	locks      *chainLocks
	logger     zerolog.Logger
}

// NewMeterService creates a new meter reading service. photoStore may be
// nil, in which case photo attachments are dropped.
func NewMeterService(meterRepo repositories.MeterReadingRepository, photoStore providers.PhotoStore) *MeterService {
	return &MeterService{
		meterRepo:  meterRepo,
		photoStore: photoStore,
		locks:      newChainLocks(),
		logger:     observability.GetLogger().With().Str("service", "meter").Logger(),
	}
}

// SubmitReading appends a reading to the caller's chain for the given kind,
// deriving previous value and consumption from the chain tail. A previous
// value of zero still counts as history.
func (s *MeterService) SubmitReading(ctx context.Context, userID string, input SubmitReadingInput) (*entities.MeterReading, error) {
	kind := entities.MeterKind(input.Kind)
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("unknown meter type: " + input.Kind)
	}
	if input.Value == nil {
		return nil, apperrors.NewValidationError("value is required")
	}
	if *input.Value < 0 {
		return nil, apperrors.NewValidationError("value must not be negative")
	}

	lock := s.locks.get(userID + ":" + string(kind))
	lock.Lock()
	defer lock.Unlock()

	latest, err := s.meterRepo.Latest(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reading := &entities.MeterReading{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Value:     *input.Value,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if latest != nil {
		prev := latest.Value
		consumption := *input.Value - prev
		reading.PreviousValue = &prev
		reading.Consumption = &consumption
	}

	if input.PhotoData != "" {
		reading.PhotoPath = s.savePhoto(ctx, reading.ID, input.PhotoData)
	}

	if err := s.meterRepo.Create(ctx, reading); err != nil {
		return nil, err
	}

	return reading, nil
}

// savePhoto decodes and stores a base64 photo attachment. Failures are
// logged and leave the reading without a photo reference.
func (s *MeterService) savePhoto(ctx context.Context, readingID, data string) string {
	if s.photoStore == nil {
		return ""
	}

	// Tolerate data-URL payloads from web clients
	if idx := strings.Index(data, ","); idx >= 0 && strings.Contains(data[:idx], ";base64") {
		data = data[idx+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("reading_id", readingID).Msg("failed to decode reading photo")
		return ""
	}

	name := uuid.New().String() + ".jpg"
	if err := s.photoStore.Save(ctx, name, decoded); err != nil {
		s.logger.Warn().Err(err).Str("reading_id", readingID).Msg("failed to store reading photo")
		return ""
	}

	return name
}

// VerifyReading marks a reading as checked by an administrator. Verifying
// an already verified reading refreshes the verifier and timestamp.
func (s *MeterService) VerifyReading(ctx context.Context, readingID string, verifier *entities.User) (*entities.MeterReading, error) {
	reading, err := s.meterRepo.GetByID(ctx, readingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reading.IsVerified = true
	reading.VerifiedByName = verifier.FullName()
	reading.VerifiedAt = &now
	reading.UpdatedAt = now

	if err := s.meterRepo.Update(ctx, reading); err != nil {
		return nil, err
	}

	return reading, nil
}

// ListForUser returns a user's readings grouped by meter kind
func (s *MeterService) ListForUser(ctx context.Context, userID string) (map[entities.MeterKind][]*entities.MeterReading, error) {
	readings, err := s.meterRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[entities.MeterKind][]*entities.MeterReading)
	for _, r := range readings {
		grouped[r.Kind] = append(grouped[r.Kind], r)
	}

	return grouped, nil
}

// ListAll returns readings matching the filter for administrative review
func (s *MeterService) ListAll(ctx context.Context, filter repositories.ReadingFilter) ([]*entities.MeterReading, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, apperrors.NewValidationError("unknown meter type: " + string(filter.Kind))
	}
	return s.meterRepo.List(ctx, filter)
}
