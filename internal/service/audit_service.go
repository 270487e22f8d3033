package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

// AuditLogStore описывает хранилище журнала аудита.
type AuditLogStore interface {
	Create(ctx context.Context, adminID uuid.UUID, action, targetID string, metadata models.JSONMap) (*models.AuditLogEntry, error)
	List(ctx context.Context, f repository.AuditFilter, page, limit int) (common.ListResult[models.AuditLogEntry], error)
}

// AuditRecorder записывает действия администраторов. Ошибки записи не возвращаются вызывающему.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry одна запись журнала.
type AuditEntry struct {
	AdminID  uuid.UUID
	Action   string
	TargetID string
	Metadata models.JSONMap
}

func (e AuditEntry) validate() error {
	switch {
	case e.AdminID == uuid.Nil:
		return errors.New("admin_id is required")
	case e.Action == "":
		return errors.New("action is required")
	case e.TargetID == "":
		return errors.New("target_id is required")
	}
	return nil
}

// AuditService журнал действий администраторов.
type AuditService struct {
	repo     AuditLogStore
	observer ModerationObserver
}

func NewAuditService(repo AuditLogStore, observer ModerationObserver) *AuditService {
	return &AuditService{repo: repo, observer: observerOrNoop(observer)}
}

// Record сохраняет запись. Любая ошибка логируется и проглатывается:
// основное действие уже выполнено и не должно откатываться из-за журнала.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	fields := logrus.Fields{
		"action":    entry.Action,
		"target_id": entry.TargetID,
		"admin_id":  entry.AdminID.String(),
	}

	if err := entry.validate(); err != nil {
		s.observer.AuditFailed()
		logger.WithError(err, fields).Warn("audit entry rejected")
		return
	}

	metadata := entry.Metadata
	if metadata == nil {
		metadata = models.JSONMap{}
	}

	if _, err := s.repo.Create(ctx, entry.AdminID, entry.Action, entry.TargetID, metadata); err != nil {
		s.observer.AuditFailed()
		logger.WithError(err, fields).Error("audit entry not saved")
	}
}

// GetLogs возвращает журнал, новые записи первыми.
func (s *AuditService) GetLogs(ctx context.Context, f repository.AuditFilter, page, limit int) (common.ListResult[models.AuditLogEntry], error) {
	return s.repo.List(ctx, f, page, limit)
}
