package models

import (
	"time"

	"github.com/google/uuid"
)

// Job вакансия родителя, которая может быть назначена сиделке.
type Job struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Location    *string    `db:"location" json:"location,omitempty"`
	Budget      *float64   `db:"budget" json:"budget,omitempty"`
	HourlyRate  *float64   `db:"hourly_rate" json:"hourly_rate,omitempty"`
	ParentID    uuid.UUID  `db:"parent_id" json:"parent_id"`
	CaregiverID *uuid.UUID `db:"caregiver_id" json:"caregiver_id,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	Parent    *UserSummary `db:"parent" json:"parent,omitempty"`
	Caregiver *UserSummary `db:"caregiver" json:"caregiver,omitempty"`
}
