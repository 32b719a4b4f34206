package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/clients/postgres"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

var readingColumns = []interface{}{
	"id", "user_id", "meter_type", "value", "previous_value", "consumption",
	"notes", "photo_path", "is_verified", "verified_by_name", "verified_at",
	"created_at", "updated_at",
}

// MeterAdapter implements the reading ledger in Postgres
type MeterAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMeterAdapter creates a new meter reading adapter
func NewMeterAdapter(client *postgres.Client) repositories.MeterReadingRepository {
	return &MeterAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create appends a reading row
func (a *MeterAdapter) Create(ctx context.Context, reading *entities.MeterReading) error {
	record := goqu.Record{
		"id":               reading.ID,
		"user_id":          reading.UserID,
		"meter_type":       string(reading.Kind),
		"value":            reading.Value,
		"previous_value":   reading.PreviousValue,
		"consumption":      reading.Consumption,
		"notes":            nullString(reading.Notes),
		"photo_path":       nullString(reading.PhotoPath),
		"is_verified":      reading.IsVerified,
		"verified_by_name": nullString(reading.VerifiedByName),
		"verified_at":      reading.VerifiedAt,
		"created_at":       reading.CreatedAt,
		"updated_at":       reading.UpdatedAt,
	}

	query, args, err := a.db.Insert("meter_readings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build reading insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create meter reading", err)
	}

	return nil
}

// GetByID retrieves a reading by ID
func (a *MeterAdapter) GetByID(ctx context.Context, id string) (*entities.MeterReading, error) {
	query, args, err := a.db.Select(readingColumns...).From("meter_readings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build reading query", err)
	}

	reading, err := scanReading(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reading with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get meter reading", err)
	}

	return reading, nil
}

// Update persists the verification state of a reading
func (a *MeterAdapter) Update(ctx context.Context, reading *entities.MeterReading) error {
	record := goqu.Record{
		"is_verified":      reading.IsVerified,
		"verified_by_name": nullString(reading.VerifiedByName),
		"verified_at":      reading.VerifiedAt,
		"updated_at":       reading.UpdatedAt,
	}

	query, args, err := a.db.Update("meter_readings").Set(record).
		Where(goqu.Ex{"id": reading.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build reading update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update meter reading", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reading with id %s not found", reading.ID))
	}

	return nil
}

// Latest returns the chain head for a (user, kind) pair, or nil when the
// user has no readings of that kind yet
func (a *MeterAdapter) Latest(ctx context.Context, userID string, kind entities.MeterKind) (*entities.MeterReading, error) {
	query, args, err := a.db.Select(readingColumns...).From("meter_readings").
		Where(goqu.Ex{"user_id": userID, "meter_type": string(kind)}).
		Order(goqu.I("created_at").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build latest reading query", err)
	}

	reading, err := scanReading(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get latest reading", err)
	}

	return reading, nil
}

// ListByUser retrieves a user's readings, most recent first
func (a *MeterAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.MeterReading, error) {
	return a.list(ctx, a.db.Select(readingColumns...).From("meter_readings").
		Where(goqu.Ex{"user_id": userID}))
}

// List retrieves readings matching the filter, most recent first
func (a *MeterAdapter) List(ctx context.Context, filter repositories.ReadingFilter) ([]*entities.MeterReading, error) {
	ds := a.db.Select(readingColumns...).From("meter_readings")

	if filter.Kind != "" {
		ds = ds.Where(goqu.Ex{"meter_type": string(filter.Kind)})
	}
	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}
	if filter.From != nil {
		ds = ds.Where(goqu.C("created_at").Gte(*filter.From))
	}
	if filter.To != nil {
		ds = ds.Where(goqu.C("created_at").Lte(*filter.To))
	}

	return a.list(ctx, ds)
}

func (a *MeterAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.MeterReading, error) {
	query, args, err := ds.Order(goqu.I("created_at").Desc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build reading list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list meter readings", err)
	}
	defer rows.Close()

	var readings []*entities.MeterReading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan meter reading", err)
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

func scanReading(row rowScanner) (*entities.MeterReading, error) {
	reading := &entities.MeterReading{}
	var kind string
	var previous, consumption sql.NullFloat64
	var notes, photoPath, verifiedBy sql.NullString
	var verifiedAt sql.NullTime

	err := row.Scan(
		&reading.ID,
		&reading.UserID,
		&kind,
		&reading.Value,
		&previous,
		&consumption,
		&notes,
		&photoPath,
		&reading.IsVerified,
		&verifiedBy,
		&verifiedAt,
		&reading.CreatedAt,
		&reading.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	reading.Kind = entities.MeterKind(kind)
	if previous.Valid {
		reading.PreviousValue = &previous.Float64
	}
	if consumption.Valid {
		reading.Consumption = &consumption.Float64
	}
	reading.Notes = notes.String
	reading.PhotoPath = photoPath.String
	reading.VerifiedByName = verifiedBy.String
	if verifiedAt.Valid {
		t := verifiedAt.Time
		reading.VerifiedAt = &t
	}

	return reading, nil
}
