package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/clients/postgres"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

// CatalogAdapter implements the meter type and complaint category catalogs
// in Postgres
type CatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCatalogAdapter creates a new catalog adapter
func NewCatalogAdapter(client *postgres.Client) repositories.CatalogRepository {
	return &CatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListMeterTypes retrieves active meter types
func (a *CatalogAdapter) ListMeterTypes(ctx context.Context) ([]*entities.MeterType, error) {
	query, args, err := a.db.Select("id", "code", "name", "unit", "description", "is_active", "created_at").
		From("meter_types").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build meter type query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list meter types", err)
	}
	defer rows.Close()

	var types []*entities.MeterType
	for rows.Next() {
		mt := &entities.MeterType{}
		var code string
		var description sql.NullString
		if err := rows.Scan(&mt.ID, &code, &mt.Name, &mt.Unit, &description, &mt.IsActive, &mt.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan meter type", err)
		}
		mt.Code = entities.MeterKind(code)
		mt.Description = description.String
		types = append(types, mt)
	}

	return types, rows.Err()
}

// ListComplaintCategories retrieves active complaint categories
func (a *CatalogAdapter) ListComplaintCategories(ctx context.Context) ([]*entities.ComplaintCategory, error) {
	query, args, err := a.db.Select("id", "code", "name", "description", "sla_hours", "is_active", "created_at").
		From("complaint_categories").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build category query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list complaint categories", err)
	}
	defer rows.Close()

	var categories []*entities.ComplaintCategory
	for rows.Next() {
		cat := &entities.ComplaintCategory{}
		var description sql.NullString
		if err := rows.Scan(&cat.ID, &cat.Code, &cat.Name, &description, &cat.SLAHours, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan complaint category", err)
		}
		cat.Description = description.String
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}

// InsertMeterTypeIfAbsent inserts a meter type unless its code exists.
// Seeding relies on this guard to stay idempotent across restarts.
func (a *CatalogAdapter) InsertMeterTypeIfAbsent(ctx context.Context, mt *entities.MeterType) error {
	record := goqu.Record{
		"id":          mt.ID,
		"code":        string(mt.Code),
		"name":        mt.Name,
		"unit":        mt.Unit,
		"description": nullString(mt.Description),
		"is_active":   mt.IsActive,
		"created_at":  mt.CreatedAt,
	}

	query, args, err := a.db.Insert("meter_types").Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build meter type insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to seed meter type", err)
	}

	return nil
}

// InsertComplaintCategoryIfAbsent inserts a category unless its code exists
func (a *CatalogAdapter) InsertComplaintCategoryIfAbsent(ctx context.Context, cat *entities.ComplaintCategory) error {
	record := goqu.Record{
		"id":          cat.ID,
		"code":        cat.Code,
		"name":        cat.Name,
		"description": nullString(cat.Description),
		"sla_hours":   cat.SLAHours,
		"is_active":   cat.IsActive,
		"created_at":  cat.CreatedAt,
	}

	query, args, err := a.db.Insert("complaint_categories").Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build category insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to seed complaint category", err)
	}

	return nil
}
