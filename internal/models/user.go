package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User описывает аккаунт маркетплейса вместе с полями модерации.
type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	Name              string     `db:"name" json:"name"`
	Role              string     `db:"role" json:"role"`
	Status            string     `db:"status" json:"status"`
	StatusReason      *string    `db:"status_reason" json:"status_reason,omitempty"`
	StatusUpdatedAt   *time.Time `db:"status_updated_at" json:"status_updated_at,omitempty"`
	StatusUpdatedBy   *uuid.UUID `db:"status_updated_by" json:"status_updated_by,omitempty"`
	SuspensionEndDate *time.Time `db:"suspension_end_date" json:"suspension_end_date"`
	SuspensionCount   int        `db:"suspension_count" json:"suspension_count"`
	LastSuspensionAt  *time.Time `db:"last_suspension_at" json:"last_suspension_at,omitempty"`
	DeletedAt         *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy         *uuid.UUID `db:"deleted_by" json:"deleted_by,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`

	CaregiverProfile *CaregiverProfile `db:"caregiver_profile" json:"caregiver_profile,omitempty"`
}

// Summary возвращает краткое представление для встраивания в связанные сущности.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserSummary краткие данные пользователя, встраиваемые в вакансии, бронирования и жалобы.
// Из БД приходит как row_to_json подзапрос.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role,omitempty"`
}

// Scan реализует sql.Scanner для json колонки.
func (s *UserSummary) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// Actor пользователь, от имени которого выполняется запрос.
type Actor struct {
	ID     uuid.UUID `json:"id"`
	Role   string    `json:"role"`
	Status string    `json:"status"`
	Email  string    `json:"email"`
}

// IsAdmin сообщает, может ли актор модерировать чужие аккаунты.
func (a Actor) IsAdmin() bool {
	return IsAdminRole(a.Role)
}

// IsSuperadmin сообщает, есть ли у актора полные права.
func (a Actor) IsSuperadmin() bool {
	return a.Role == RoleSuperadmin
}

// CaregiverProfile расширение пользователя с ролью caregiver.
type CaregiverProfile struct {
	UserID          uuid.UUID    `db:"user_id" json:"user_id"`
	Bio             *string      `db:"bio" json:"bio,omitempty"`
	ExperienceYears int          `db:"experience_years" json:"experience_years"`
	HourlyRate      *float64     `db:"hourly_rate" json:"hourly_rate,omitempty"`
	Rating          float64      `db:"rating" json:"rating"`
	Verification    Verification `db:"verification" json:"verification"`
	TrustScore      int          `db:"trust_score" json:"trust_score"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// Scan позволяет встраивать профиль в выборку пользователя.
func (p *CaregiverProfile) Scan(src interface{}) error {
	return scanJSON(src, p)
}

// Verification хранится в jsonb колонке профиля.
type Verification struct {
	IDVerified      bool       `json:"id_verified"`
	BackgroundCheck bool       `json:"background_check"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
}

// Value реализует driver.Valuer.
func (v Verification) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Scan реализует sql.Scanner.
func (v *Verification) Scan(src interface{}) error {
	return scanJSON(src, v)
}

// scanJSON декодирует json/jsonb значение из драйвера.
func scanJSON(src interface{}, dst interface{}) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("models: unsupported json source %T", src)
	}
}
