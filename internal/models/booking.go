package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Booking договорённость между родителем и сиделкой.
type Booking struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ParentID    uuid.UUID  `db:"parent_id" json:"parent_id"`
	CaregiverID uuid.UUID  `db:"caregiver_id" json:"caregiver_id"`
	JobID       *uuid.UUID `db:"job_id" json:"job_id,omitempty"`
	Status      string     `db:"status" json:"status"`
	StartTime   *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime     *time.Time `db:"end_time" json:"end_time,omitempty"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	TotalHours float64 `db:"-" json:"total_hours"`

	Parent    *UserSummary `db:"parent" json:"parent,omitempty"`
	Caregiver *UserSummary `db:"caregiver" json:"caregiver,omitempty"`
}

// FillTotalHours вычисляет длительность в часах с точностью до сотых.
func (b *Booking) FillTotalHours() {
	b.TotalHours = TotalHours(b.StartTime, b.EndTime)
}

// TotalHours возвращает 0, если одна из границ не задана или интервал перевёрнут.
func TotalHours(start, end *time.Time) float64 {
	if start == nil || end == nil || !end.After(*start) {
		return 0
	}
	return math.Round(end.Sub(*start).Hours()*100) / 100
}
