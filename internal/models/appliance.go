package models

import (
	"time"

	"github.com/google/uuid"
)

// Appliance is a single appliance record from the inventory store. The
// store is owned by the account service; this service only reads it.
type Appliance struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	Name              string    `json:"name" db:"name"`
	RatedWatt         float64   `json:"rated_watt" db:"rated_watt"`
	Quantity          int       `json:"quantity" db:"quantity"`
	PeakUsageHours    float64   `json:"peak_usage_hours" db:"peak_usage_hours"`
	OffPeakUsageHours float64   `json:"off_peak_usage_hours" db:"off_peak_usage_hours"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
