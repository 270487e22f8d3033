package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemSettingsID ключ единственной строки настроек.
const SystemSettingsID = 1

// SystemSettings глобальные настройки платформы.
type SystemSettings struct {
	ID                        int        `db:"id" json:"-"`
	MaintenanceMode           bool       `db:"maintenance_mode" json:"maintenance_mode"`
	RegistrationEnabled       bool       `db:"registration_enabled" json:"registration_enabled"`
	EmailVerificationRequired bool       `db:"email_verification_required" json:"email_verification_required"`
	BackgroundCheckRequired   bool       `db:"background_check_required" json:"background_check_required"`
	UpdatedAt                 time.Time  `db:"updated_at" json:"updated_at"`
	UpdatedBy                 *uuid.UUID `db:"updated_by" json:"updated_by,omitempty"`
}

// DefaultSystemSettings значения, когда строка настроек ещё не создана.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		ID:                        SystemSettingsID,
		MaintenanceMode:           false,
		RegistrationEnabled:       true,
		EmailVerificationRequired: true,
		BackgroundCheckRequired:   false,
	}
}
