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

var complaintColumns = []interface{}{
	"id", "user_id", "title", "description", "category", "priority", "status",
	"assigned_to_name", "response", "resolution_notes",
	"estimated_completion", "actual_completion", "created_at", "updated_at",
}

// ComplaintAdapter implements complaint persistence in Postgres
type ComplaintAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewComplaintAdapter creates a new complaint adapter
func NewComplaintAdapter(client *postgres.Client) repositories.ComplaintRepository {
	return &ComplaintAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a complaint row
func (a *ComplaintAdapter) Create(ctx context.Context, complaint *entities.Complaint) error {
	record := goqu.Record{
		"id":                   complaint.ID,
		"user_id":              complaint.UserID,
		"title":                complaint.Title,
		"description":          complaint.Description,
		"category":             complaint.Category,
		"priority":             string(complaint.Priority),
		"status":               string(complaint.Status),
		"assigned_to_name":     nullString(complaint.AssignedToName),
		"response":             nullString(complaint.Response),
		"resolution_notes":     nullString(complaint.ResolutionNotes),
		"estimated_completion": complaint.EstimatedCompletion,
		"actual_completion":    complaint.ActualCompletion,
		"created_at":           complaint.CreatedAt,
		"updated_at":           complaint.UpdatedAt,
	}

	query, args, err := a.db.Insert("complaints").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build complaint insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create complaint", err)
	}

	return nil
}

// GetByID retrieves a complaint by ID
func (a *ComplaintAdapter) GetByID(ctx context.Context, id string) (*entities.Complaint, error) {
	query, args, err := a.db.Select(complaintColumns...).From("complaints").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build complaint query", err)
	}

	complaint, err := scanComplaint(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("complaint with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get complaint", err)
	}

	return complaint, nil
}

// Update updates a complaint row
func (a *ComplaintAdapter) Update(ctx context.Context, complaint *entities.Complaint) error {
	record := goqu.Record{
		"status":               string(complaint.Status),
		"priority":             string(complaint.Priority),
		"assigned_to_name":     nullString(complaint.AssignedToName),
		"response":             nullString(complaint.Response),
		"resolution_notes":     nullString(complaint.ResolutionNotes),
		"estimated_completion": complaint.EstimatedCompletion,
		"actual_completion":    complaint.ActualCompletion,
		"updated_at":           complaint.UpdatedAt,
	}

	query, args, err := a.db.Update("complaints").Set(record).
		Where(goqu.Ex{"id": complaint.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build complaint update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update complaint", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("complaint with id %s not found", complaint.ID))
	}

	return nil
}

// ListByUser retrieves a user's complaints, most recent first
func (a *ComplaintAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Complaint, error) {
	return a.list(ctx, a.db.Select(complaintColumns...).From("complaints").
		Where(goqu.Ex{"user_id": userID}))
}

func (a *ComplaintAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Complaint, error) {
	query, args, err := ds.Order(goqu.I("created_at").Desc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build complaint list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list complaints", err)
	}
	defer rows.Close()

	var complaints []*entities.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan complaint", err)
		}
		complaints = append(complaints, complaint)
	}

	return complaints, rows.Err()
}

func scanComplaint(row rowScanner) (*entities.Complaint, error) {
	complaint := &entities.Complaint{}
	var priority, status string
	var assignedTo, response, resolutionNotes sql.NullString
	var estimated, actual sql.NullTime

	err := row.Scan(
		&complaint.ID,
		&complaint.UserID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&priority,
		&status,
		&assignedTo,
		&response,
		&resolutionNotes,
		&estimated,
		&actual,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	complaint.Priority = entities.ComplaintPriority(priority)
	complaint.Status = entities.ComplaintStatus(status)
	complaint.AssignedToName = assignedTo.String
	complaint.Response = response.String
	complaint.ResolutionNotes = resolutionNotes.String
	if estimated.Valid {
		t := estimated.Time
		complaint.EstimatedCompletion = &t
	}
	if actual.Valid {
		t := actual.Time
		complaint.ActualCompletion = &t
	}

	return complaint, nil
}
