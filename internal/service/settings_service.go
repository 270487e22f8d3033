package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/cache"
	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
)

const settingsCacheKey = "system_settings"

// SettingsStore описывает хранилище настроек.
type SettingsStore interface {
	Get(ctx context.Context) (*models.SystemSettings, error)
	Save(ctx context.Context, s models.SystemSettings, updatedBy uuid.UUID) (*models.SystemSettings, error)
}

// SettingsService читает настройки через кэш и даёт superadmin менять их.
type SettingsService struct {
	store SettingsStore
	cache cache.Store
	ttl   time.Duration
	audit AuditRecorder
}

func NewSettingsService(store SettingsStore, c cache.Store, ttl time.Duration, audit AuditRecorder) *SettingsService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SettingsService{store: store, cache: c, ttl: ttl, audit: audit}
}

// Get возвращает настройки. Ошибки кэша не мешают чтению из базы.
func (s *SettingsService) Get(ctx context.Context) (*models.SystemSettings, error) {
	var cached models.SystemSettings
	found, err := s.cache.Get(ctx, settingsCacheKey, &cached)
	if err != nil {
		logger.WithError(err, logrus.Fields{"key": settingsCacheKey}).Warn("settings cache read failed")
	}
	if found {
		return &cached, nil
	}

	settings, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, settingsCacheKey, settings, s.ttl); err != nil {
		logger.WithError(err, logrus.Fields{"key": settingsCacheKey}).Warn("settings cache write failed")
	}
	return settings, nil
}

// MaintenanceMode сообщает, включён ли режим обслуживания.
func (s *SettingsService) MaintenanceMode(ctx context.Context) (bool, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.MaintenanceMode, nil
}

// Update применяет изменения. Доступно только superadmin.
func (s *SettingsService) Update(ctx context.Context, actor models.Actor, patch repository.SettingsPatch) (*models.SystemSettings, error) {
	if !actor.IsSuperadmin() {
		return nil, apperror.Forbidden("only a superadmin can change system settings")
	}

	current, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, patch.Apply(*current), actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, settingsCacheKey); err != nil {
		logger.WithError(err, logrus.Fields{"key": settingsCacheKey}).Warn("settings cache invalidation failed")
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditUpdateSystemSettings,
		TargetID: "system_settings",
		Metadata: models.JSONMap{
			"maintenance_mode":            saved.MaintenanceMode,
			"registration_enabled":        saved.RegistrationEnabled,
			"email_verification_required": saved.EmailVerificationRequired,
			"background_check_required":   saved.BackgroundCheckRequired,
		},
	})
	return saved, nil
}
