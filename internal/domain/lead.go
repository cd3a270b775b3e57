package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus enumerates submission outcomes.
type LeadStatus string

const (
	LeadDelivered LeadStatus = "delivered"
	LeadFailed    LeadStatus = "failed"
)

// Lead is one form submission attempt recorded for follow-up.
type Lead struct {
	ID        uuid.UUID
	FormName  string
	Email     string
	Name      string
	Phone     string
	Status    LeadStatus
	CreatedAt time.Time
}
