package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/providers"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/observability"
)

const (
	meterTypesCacheKey     = "catalog:meter_types"
	categoriesCacheKey     = "catalog:complaint_categories"
	catalogCacheTTLSeconds = 300
)

// CatalogService serves the meter type and complaint category catalogs
type CatalogService struct {
	catalogRepo repositories.CatalogRepository
	cache       providers.CacheProvider
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil, in
// which case every listing hits the database.
func NewCatalogService(catalogRepo repositories.CatalogRepository, cache providers.CacheProvider) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		cache:       cache,
		logger:      observability.GetLogger().With().Str("service", "catalog").Logger(),
	}
}

// Seed inserts the default meter types and complaint categories. Existing
// codes are left untouched, so seeding on every boot is safe.
func (s *CatalogService) Seed(ctx context.Context) error {
	now := time.Now().UTC()

	meterTypes := []entities.MeterType{
		{Code: entities.MeterElectricity, Name: "Electricity", Unit: "kWh", Description: "Electric power meter"},
		{Code: entities.MeterColdWater, Name: "Cold water", Unit: "m3", Description: "Cold water supply meter"},
		{Code: entities.MeterHotWater, Name: "Hot water", Unit: "m3", Description: "Hot water supply meter"},
		{Code: entities.MeterGas, Name: "Gas", Unit: "m3", Description: "Natural gas meter"},
		{Code: entities.MeterHeating, Name: "Heating", Unit: "Gcal", Description: "Central heating meter"},
	}
	for i := range meterTypes {
		mt := meterTypes[i]
		mt.ID = uuid.New().String()
		mt.IsActive = true
		mt.CreatedAt = now
		if err := s.catalogRepo.InsertMeterTypeIfAbsent(ctx, &mt); err != nil {
			return err
		}
	}

	categories := []entities.ComplaintCategory{
		{Code: "plumbing", Name: "Plumbing", SLAHours: 4, Description: "Leaks, pipes and water supply"},
		{Code: "electricity", Name: "Electricity", SLAHours: 2, Description: "Wiring, outages and sockets"},
		{Code: "heating", Name: "Heating", SLAHours: 24, Description: "Radiators and central heating"},
		{Code: "cleaning", Name: "Cleaning", SLAHours: 24, Description: "Common area cleaning"},
		{Code: "noise", Name: "Noise", SLAHours: 48, Description: "Noise complaints"},
		{Code: "elevator", Name: "Elevator", SLAHours: 8, Description: "Elevator malfunctions"},
		{Code: "repair", Name: "Repair", SLAHours: 72, Description: "General repairs"},
		{Code: "other", Name: "Other", SLAHours: 72, Description: "Everything else"},
	}
	for i := range categories {
		cat := categories[i]
		cat.ID = uuid.New().String()
		cat.IsActive = true
		cat.CreatedAt = now
		if err := s.catalogRepo.InsertComplaintCategoryIfAbsent(ctx, &cat); err != nil {
			return err
		}
	}

	s.logger.Info().Msg("catalog seeding complete")
	return nil
}

// MeterTypes returns the active meter types, cached for a few minutes
func (s *CatalogService) MeterTypes(ctx context.Context) ([]*entities.MeterType, error) {
	var cached []*entities.MeterType
	if s.fromCache(ctx, meterTypesCacheKey, &cached) {
		return cached, nil
	}

	types, err := s.catalogRepo.ListMeterTypes(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, meterTypesCacheKey, types)

	return types, nil
}

// ComplaintCategories returns the active complaint categories, cached for
// a few minutes
func (s *CatalogService) ComplaintCategories(ctx context.Context) ([]*entities.ComplaintCategory, error) {
	var cached []*entities.ComplaintCategory
	if s.fromCache(ctx, categoriesCacheKey, &cached) {
		return cached, nil
	}

	categories, err := s.catalogRepo.ListComplaintCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, categoriesCacheKey, categories)

	return categories, nil
}

func (s *CatalogService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dropping corrupt cache entry")
		_ = s.cache.Delete(ctx, key)
		return false
	}
	return true
}

func (s *CatalogService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, catalogCacheTTLSeconds); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to populate cache")
	}
}
