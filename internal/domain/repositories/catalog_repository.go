package repositories

import (
	"context"

	"github.com/upravdom/resident-portal/internal/domain/entities"
)

// CatalogRepository defines the interface for the meter type and complaint
// category catalogs
type CatalogRepository interface {
	// ListMeterTypes retrieves active meter types
	ListMeterTypes(ctx context.Context) ([]*entities.MeterType, error)

	// ListComplaintCategories retrieves active complaint categories
	ListComplaintCategories(ctx context.Context) ([]*entities.ComplaintCategory, error)

	// InsertMeterTypeIfAbsent inserts a meter type unless its code exists
	InsertMeterTypeIfAbsent(ctx context.Context, mt *entities.MeterType) error

	// InsertComplaintCategoryIfAbsent inserts a category unless its code exists
	InsertComplaintCategoryIfAbsent(ctx context.Context, cat *entities.ComplaintCategory) error
}
