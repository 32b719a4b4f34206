package entities

import "time"

// MeterKind identifies the utility a reading belongs to
type MeterKind string

const (
	MeterElectricity MeterKind = "electricity"
	MeterColdWater   MeterKind = "cold_water"
	MeterHotWater    MeterKind = "hot_water"
	MeterGas         MeterKind = "gas"
	MeterHeating     MeterKind = "heating"
)

// Valid reports whether k is one of the known meter kinds
func (k MeterKind) Valid() bool {
	switch k {
	case MeterElectricity, MeterColdWater, MeterHotWater, MeterGas, MeterHeating:
		return true
	}
	return false
}

// MeterReading is one submission in a per-(user, kind) append-only chain.
// PreviousValue and Consumption are nil only when no prior reading of the
// same kind exists for the user; a previous value of zero is a real value
// and still produces a consumption delta.
type MeterReading struct {
	ID             string     `json:"id" db:"id"`
	UserID         string     `json:"user_id" db:"user_id"`
	Kind           MeterKind  `json:"meter_type" db:"meter_type"`
	Value          float64    `json:"value" db:"value"`
	PreviousValue  *float64   `json:"previous_value,omitempty" db:"previous_value"`
	Consumption    *float64   `json:"consumption,omitempty" db:"consumption"`
	Notes          string     `json:"notes,omitempty" db:"notes"`
	PhotoPath      string     `json:"photo_path,omitempty" db:"photo_path"`
	IsVerified     bool       `json:"is_verified" db:"is_verified"`
	VerifiedByName string     `json:"verified_by_name,omitempty" db:"verified_by_name"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
