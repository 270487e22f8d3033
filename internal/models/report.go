package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserReport жалоба одного пользователя на другого.
type UserReport struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	ReporterID     uuid.UUID      `db:"reporter_id" json:"reporter_id"`
	ReportedUserID uuid.UUID      `db:"reported_user_id" json:"reported_user_id"`
	ReportType     string         `db:"report_type" json:"report_type"`
	Category       *string        `db:"category" json:"category,omitempty"`
	Title          string         `db:"title" json:"title"`
	Description    *string        `db:"description" json:"description,omitempty"`
	Severity       string         `db:"severity" json:"severity"`
	Status         string         `db:"status" json:"status"`
	EvidenceURLs   pq.StringArray `db:"evidence_urls" json:"evidence_urls"`
	BookingID      *uuid.UUID     `db:"booking_id" json:"booking_id,omitempty"`
	JobID          *uuid.UUID     `db:"job_id" json:"job_id,omitempty"`
	AdminNotes     *string        `db:"admin_notes" json:"admin_notes,omitempty"`
	ReviewedBy     *uuid.UUID     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time     `db:"reviewed_at" json:"reviewed_at,omitempty"`
	Resolution     *string        `db:"resolution" json:"resolution,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`

	Reporter     *UserSummary `db:"reporter" json:"reporter,omitempty"`
	ReportedUser *UserSummary `db:"reported_user" json:"reported_user,omitempty"`
}
