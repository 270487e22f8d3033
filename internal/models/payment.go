package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment финансовая запись, привязанная к бронированию один к одному.
type Payment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	BookingID     uuid.UUID `db:"booking_id" json:"booking_id"`
	ParentID      uuid.UUID `db:"parent_id" json:"parent_id"`
	CaregiverID   uuid.UUID `db:"caregiver_id" json:"caregiver_id"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	RefundReason  *string   `db:"refund_reason" json:"refund_reason,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	Parent    *UserSummary `db:"parent" json:"parent,omitempty"`
	Caregiver *UserSummary `db:"caregiver" json:"caregiver,omitempty"`

	// Вычисляются при каждом чтении.
	Proofs      []PaymentProof `db:"-" json:"proofs"`
	ProofIssues []string       `db:"-" json:"proof_issues"`
	ProofStatus string         `db:"-" json:"proof_status"`
}

// PaymentProof загруженное подтверждение оплаты.
type PaymentProof struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	BookingID   uuid.UUID  `db:"booking_id" json:"booking_id"`
	StoragePath *string    `db:"storage_path" json:"storage_path,omitempty"`
	PublicURL   *string    `db:"public_url" json:"public_url,omitempty"`
	MimeType    *string    `db:"mime_type" json:"mime_type,omitempty"`
	UploadedBy  *uuid.UUID `db:"uploaded_by" json:"uploaded_by,omitempty"`
	UploadedAt  time.Time  `db:"uploaded_at" json:"uploaded_at"`
	PaymentType *string    `db:"payment_type" json:"payment_type,omitempty"`

	SignedURL  string   `db:"-" json:"signed_url,omitempty"`
	Issues     []string `db:"-" json:"issues"`
	Suspicious bool     `db:"-" json:"suspicious"`
}
