package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const settingsTable = "system_settings"

// SettingsPatch изменяемые флаги. nil означает "не менять".
type SettingsPatch struct {
	MaintenanceMode           *bool `json:"maintenance_mode"`
	RegistrationEnabled       *bool `json:"registration_enabled"`
	EmailVerificationRequired *bool `json:"email_verification_required"`
	BackgroundCheckRequired   *bool `json:"background_check_required"`
}

// Apply накладывает изменения на текущие настройки.
func (p SettingsPatch) Apply(s models.SystemSettings) models.SystemSettings {
	if p.MaintenanceMode != nil {
		s.MaintenanceMode = *p.MaintenanceMode
	}
	if p.RegistrationEnabled != nil {
		s.RegistrationEnabled = *p.RegistrationEnabled
	}
	if p.EmailVerificationRequired != nil {
		s.EmailVerificationRequired = *p.EmailVerificationRequired
	}
	if p.BackgroundCheckRequired != nil {
		s.BackgroundCheckRequired = *p.BackgroundCheckRequired
	}
	return s
}

// SettingsRepository работает с единственной строкой system_settings.
type SettingsRepository struct {
	gw *common.Gateway
}

func NewSettingsRepository(gw *common.Gateway) *SettingsRepository {
	return &SettingsRepository{gw: gw}
}

// Get возвращает настройки или значения по умолчанию, если строки ещё нет.
func (r *SettingsRepository) Get(ctx context.Context) (*models.SystemSettings, error) {
	settings, err := common.FindOne[models.SystemSettings](ctx, r.gw, settingsTable,
		common.Where(common.Eq("id", models.SystemSettingsID)), common.Options{})
	if common.IsNoRows(err) {
		defaults := models.DefaultSystemSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, mapErr(err, "settings repository: get", nil)
	}
	return settings, nil
}

// Save записывает все флаги, создавая строку при первом сохранении.
func (r *SettingsRepository) Save(ctx context.Context, s models.SystemSettings, updatedBy uuid.UUID) (*models.SystemSettings, error) {
	saved, err := common.Upsert[models.SystemSettings](ctx, r.gw, settingsTable, "id", map[string]interface{}{
		"id":                          models.SystemSettingsID,
		"maintenance_mode":            s.MaintenanceMode,
		"registration_enabled":        s.RegistrationEnabled,
		"email_verification_required": s.EmailVerificationRequired,
		"background_check_required":   s.BackgroundCheckRequired,
		"updated_at":                  time.Now().UTC(),
		"updated_by":                  updatedBy,
	})
	if err != nil {
		return nil, mapErr(err, "settings repository: save", nil)
	}
	return saved, nil
}
