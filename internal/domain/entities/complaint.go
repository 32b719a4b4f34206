package entities

import "time"

// ComplaintStatus is the complaint state machine position
type ComplaintStatus string

const (
	ComplaintStatusNew        ComplaintStatus = "new"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// Valid reports whether s is a known status
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusNew, ComplaintStatusInProgress, ComplaintStatusResolved,
		ComplaintStatusRejected, ComplaintStatusClosed:
		return true
	}
	return false
}

// ComplaintPriority ranks how urgent a complaint is
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
	PriorityUrgent ComplaintPriority = "urgent"
)

// Valid reports whether p is a known priority
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Complaint is a resident trouble ticket. Created by the owning user,
// mutated only by administrative updates. ActualCompletion is stamped
// on the first transition into the resolved status.
type Complaint struct {
	ID                  string            `json:"id" db:"id"`
	UserID              string            `json:"user_id" db:"user_id"`
	Title               string            `json:"title" db:"title"`
	Description         string            `json:"description" db:"description"`
	Category            string            `json:"category" db:"category"`
	Priority            ComplaintPriority `json:"priority" db:"priority"`
	Status              ComplaintStatus   `json:"status" db:"status"`
	AssignedToName      string            `json:"assigned_to_name,omitempty" db:"assigned_to_name"`
	Response            string            `json:"response,omitempty" db:"response"`
	ResolutionNotes     string            `json:"resolution_notes,omitempty" db:"resolution_notes"`
	EstimatedCompletion *time.Time        `json:"estimated_completion,omitempty" db:"estimated_completion"`
	ActualCompletion    *time.Time        `json:"actual_completion,omitempty" db:"actual_completion"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" db:"updated_at"`
}
