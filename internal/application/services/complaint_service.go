package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

// CreateComplaintInput carries a new resident complaint
type CreateComplaintInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority,omitempty"`
}

// UpdateComplaintInput carries an administrative update. Nil fields are
// left untouched.
type UpdateComplaintInput struct {
	Status              *string    `json:"status,omitempty"`
	Priority            *string    `json:"priority,omitempty"`
	AssignedToName      *string    `json:"assigned_to_name,omitempty"`
	Response            *string    `json:"response,omitempty"`
	ResolutionNotes     *string    `json:"resolution_notes,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}

// ComplaintService manages the complaint lifecycle
type ComplaintService struct {
	complaintRepo repositories.ComplaintRepository
}

// NewComplaintService creates a new complaint service
func NewComplaintService(complaintRepo repositories.ComplaintRepository) *ComplaintService {
	return &ComplaintService{complaintRepo: complaintRepo}
}

// Create files a new complaint for the given resident. Status always
// starts at new; priority defaults to medium.
func (s *ComplaintService) Create(ctx context.Context, userID string, input CreateComplaintInput) (*entities.Complaint, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if input.Description == "" {
		return nil, apperrors.NewValidationError("description is required")
	}
	if input.Category == "" {
		return nil, apperrors.NewValidationError("category is required")
	}

	priority := entities.PriorityMedium
	if input.Priority != "" {
		priority = entities.ComplaintPriority(input.Priority)
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority: " + input.Priority)
		}
	}

	now := time.Now().UTC()
	complaint := &entities.Complaint{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      entities.ComplaintStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, err
	}

	return complaint, nil
}

// Get retrieves a complaint. Residents may only see their own complaints;
// administrators may see any.
func (s *ComplaintService) Get(ctx context.Context, id string, requester *entities.User) (*entities.Complaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && complaint.UserID != requester.ID {
		return nil, apperrors.NewForbiddenError("complaint belongs to another resident")
	}
	return complaint, nil
}

// Update applies an administrative update to a complaint. The first
// transition into the resolved status stamps ActualCompletion; later
// updates never move that stamp.
func (s *ComplaintService) Update(ctx context.Context, id string, input UpdateComplaintInput) (*entities.Complaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if input.Status != nil {
		status := entities.ComplaintStatus(*input.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("unknown status: " + *input.Status)
		}
		complaint.Status = status
		if status == entities.ComplaintStatusResolved && complaint.ActualCompletion == nil {
			completed := now
			complaint.ActualCompletion = &completed
		}
	}
	if input.Priority != nil {
		priority := entities.ComplaintPriority(*input.Priority)
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority: " + *input.Priority)
		}
		complaint.Priority = priority
	}
	if input.AssignedToName != nil {
		complaint.AssignedToName = *input.AssignedToName
	}
	if input.Response != nil {
		complaint.Response = *input.Response
	}
	if input.ResolutionNotes != nil {
		complaint.ResolutionNotes = *input.ResolutionNotes
	}
	if input.EstimatedCompletion != nil {
		complaint.EstimatedCompletion = input.EstimatedCompletion
	}

	complaint.UpdatedAt = now

	if err := s.complaintRepo.Update(ctx, complaint); err != nil {
		return nil, err
	}

	return complaint, nil
}

// ListForUser returns a resident's complaints, most recent first
func (s *ComplaintService) ListForUser(ctx context.Context, userID string) ([]*entities.Complaint, error) {
	return s.complaintRepo.ListByUser(ctx, userID)
}
