package entities

import "time"

// MeterType is a catalog row describing one meter kind. The catalog is a
// data-driven layer over the MeterKind enum, not a replacement for it.
type MeterType struct {
	ID          string    `json:"id" db:"id"`
	Code        MeterKind `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Unit        string    `json:"unit" db:"unit"`
	Description string    `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ComplaintCategory is a catalog row with an informational SLA target
type ComplaintCategory struct {
	ID          string    `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	SLAHours    int       `json:"sla_hours" db:"sla_hours"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
