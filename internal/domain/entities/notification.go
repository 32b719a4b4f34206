package entities

import "time"

// NotificationSeverity tags the tone of a broadcast message
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeverityWarning NotificationSeverity = "warning"
	SeveritySuccess NotificationSeverity = "success"
	SeverityError   NotificationSeverity = "error"
)

// Valid reports whether s is a known severity
func (s NotificationSeverity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeveritySuccess, SeverityError:
		return true
	}
	return false
}

// NotificationTarget selects the broadcast audience
type NotificationTarget string

const (
	TargetAll      NotificationTarget = "all"
	TargetBuilding NotificationTarget = "building"
	TargetSpecific NotificationTarget = "specific"
)

// DeliveryStatus records the outcome of the external push for one recipient
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Notification is one per-recipient row of a broadcast. The in-app record
// is persisted regardless of the external delivery outcome; ReadBy is a
// set of user IDs and never holds duplicates.
type Notification struct {
	ID             string               `json:"id" db:"id"`
	RecipientID    string               `json:"recipient_id" db:"recipient_id"`
	Title          string               `json:"title" db:"title"`
	Message        string               `json:"message" db:"message"`
	Severity       NotificationSeverity `json:"severity" db:"severity"`
	Target         NotificationTarget   `json:"target" db:"target"`
	DeliveryStatus DeliveryStatus       `json:"delivery_status" db:"delivery_status"`
	DeliveryError  string               `json:"delivery_error,omitempty" db:"delivery_error"`
	SentAt         time.Time            `json:"sent_at" db:"sent_at"`
	ReadBy         []string             `json:"read_by" db:"read_by"`
}

// IsReadBy reports whether the given user has marked the notification read
func (n *Notification) IsReadBy(userID string) bool {
	for _, id := range n.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// BroadcastResult aggregates per-recipient delivery outcomes. Partial
// delivery is the expected common case, not an error.
type BroadcastResult struct {
	SentCount   int `json:"sent_count"`
	FailedCount int `json:"failed_count"`
	TotalCount  int `json:"total_count"`
}
