package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/goroutine"
	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/notify"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const (
	// MaxBulkUsers ограничение на число пользователей в одном массовом запросе.
	MaxBulkUsers = 100

	sweepReason         = "Suspension period ended"
	notificationTimeout = 30 * time.Second
)

// UserStatusStore описывает зависимости UserStatusService от хранилища.
type UserStatusStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateStatusWithHistory(ctx context.Context, id uuid.UUID, change repository.UserStatusChange) (*models.User, error)
	ReactivateExpired(ctx context.Context, now time.Time, reason string) ([]models.User, error)
}

// StatusHistoryStore читает историю статусов.
type StatusHistoryStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (common.ListResult[models.StatusHistoryEntry], error)
}

// StatusNotifier отправляет письмо о смене статуса.
type StatusNotifier interface {
	SendStatusEmail(ctx context.Context, email notify.StatusEmail) error
}

// StatusOptions параметры смены статуса.
type StatusOptions struct {
	Reason       string
	DurationDays int
}

// BulkStatusResult итог массовой смены статуса.
type BulkStatusResult struct {
	Updated     []models.User `json:"updated"`
	FailedCount int           `json:"failed_count"`
}

// UserStatusService жизненный цикл статуса аккаунта: приостановка, блокировка, восстановление.
type UserStatusService struct {
	users                 UserStatusStore
	history               StatusHistoryStore
	audit                 AuditRecorder
	notifier              StatusNotifier
	observer              ModerationObserver
	defaultSuspensionDays int

	now      func() time.Time
	dispatch func(func())
}

func NewUserStatusService(users UserStatusStore, history StatusHistoryStore, audit AuditRecorder, notifier StatusNotifier, observer ModerationObserver, defaultSuspensionDays int) *UserStatusService {
	if defaultSuspensionDays <= 0 {
		defaultSuspensionDays = 7
	}
	return &UserStatusService{
		users:                 users,
		history:               history,
		audit:                 audit,
		notifier:              notifier,
		observer:              observerOrNoop(observer),
		defaultSuspensionDays: defaultSuspensionDays,
		now:                   time.Now,
		dispatch:              func(fn func()) { goroutine.Go("status-email", fn) },
	}
}

// canModerate проверяет, что актор может менять аккаунт target.
func canModerate(actor models.Actor, target *models.User) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	if models.IsAdminRole(target.Role) && !actor.IsSuperadmin() {
		return apperror.Forbidden("only a superadmin can moderate admin accounts")
	}
	return nil
}

// UpdateStatus меняет статус аккаунта, пишет историю, аудит и отправляет письмо.
func (s *UserStatusService) UpdateStatus(ctx context.Context, actor models.Actor, userID uuid.UUID, status string, opts StatusOptions) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if _, ok := models.ValidUserStatuses[status]; !ok {
		return nil, apperror.Validation(fmt.Sprintf("invalid status: %s", status))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := canModerate(actor, user); err != nil {
		return nil, err
	}
	if user.ID == actor.ID {
		return nil, apperror.Forbidden("cannot change the status of your own account")
	}
	if user.DeletedAt != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "user is deleted")
	}

	now := s.now().UTC()
	change := repository.UserStatusChange{
		ExpectedStatus: user.Status,
		Status:         status,
		Reason:         optionalString(opts.Reason),
		ChangedBy:      &actor.ID,
		At:             now,
	}

	metadata := models.JSONMap{"from": user.Status, "to": status, "reason": opts.Reason}

	switch status {
	case models.UserStatusSuspended:
		days := opts.DurationDays
		if days <= 0 {
			days = s.defaultSuspensionDays
		}
		end := now.Add(time.Duration(days) * 24 * time.Hour)
		count := user.SuspensionCount + 1
		change.SuspensionEndDate = &end
		change.SuspensionCount = &count
		change.LastSuspensionAt = &now
		metadata["duration_days"] = days
	case models.UserStatusActive:
		change.ClearSuspension = true
	}

	updated, err := s.users.UpdateStatusWithHistory(ctx, userID, change)
	s.observer.ObserveTransition("user", status, outcome(err))
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditUpdateUserStatus,
		TargetID: userID.String(),
		Metadata: metadata,
	})
	s.notify(updated, opts.Reason)

	return updated, nil
}

// BulkUpdateStatus применяет UpdateStatus к каждому пользователю по очереди.
// Ошибка одного пользователя не останавливает остальных.
func (s *UserStatusService) BulkUpdateStatus(ctx context.Context, actor models.Actor, ids []uuid.UUID, status string, opts StatusOptions) (*BulkStatusResult, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if len(ids) == 0 {
		return nil, apperror.Validation("user_ids cannot be empty")
	}
	if len(ids) > MaxBulkUsers {
		return nil, apperror.Validation(fmt.Sprintf("too many users in one request, max %d", MaxBulkUsers))
	}
	if _, ok := models.ValidUserStatuses[status]; !ok {
		return nil, apperror.Validation(fmt.Sprintf("invalid status: %s", status))
	}

	result := &BulkStatusResult{Updated: make([]models.User, 0, len(ids))}
	for _, id := range ids {
		user, err := s.UpdateStatus(ctx, actor, id, status, opts)
		if err != nil {
			result.FailedCount++
			logger.WithError(err, logrus.Fields{"user_id": id.String(), "status": status}).Warn("bulk status update skipped user")
			continue
		}
		result.Updated = append(result.Updated, *user)
	}
	return result, nil
}

// ReactivateExpired возвращает в active всех, у кого истёк срок приостановки.
func (s *UserStatusService) ReactivateExpired(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ReactivateExpired(ctx, s.now().UTC(), sweepReason)
	if err != nil {
		return nil, err
	}
	for i := range users {
		s.notify(&users[i], sweepReason)
	}
	return users, nil
}

// SoftDelete помечает аккаунт удалённым и переводит его в inactive.
func (s *UserStatusService) SoftDelete(ctx context.Context, actor models.Actor, userID uuid.UUID, reason string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := canModerate(actor, user); err != nil {
		return err
	}
	if user.ID == actor.ID {
		return apperror.Forbidden("cannot delete your own account")
	}
	if user.DeletedAt != nil {
		return apperror.New(apperror.ErrCodeConflict, "user is already deleted")
	}

	now := s.now().UTC()
	_, err = s.users.UpdateStatusWithHistory(ctx, userID, repository.UserStatusChange{
		ExpectedStatus:  user.Status,
		Status:          models.UserStatusInactive,
		Reason:          optionalString(reason),
		ChangedBy:       &actor.ID,
		At:              now,
		ClearSuspension: true,
		DeletedAt:       &now,
		DeletedBy:       &actor.ID,
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditDeleteUser,
		TargetID: userID.String(),
		Metadata: models.JSONMap{"from": user.Status, "reason": reason},
	})
	return nil
}

// GetStatusHistory возвращает историю статусов, новые записи первыми.
func (s *UserStatusService) GetStatusHistory(ctx context.Context, userID uuid.UUID, page, limit int) (common.ListResult[models.StatusHistoryEntry], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return common.ListResult[models.StatusHistoryEntry]{}, err
	}
	return s.history.ListByUser(ctx, userID, page, limit)
}

// notify отправляет письмо в фоне. Ошибки отправки только логируются.
func (s *UserStatusService) notify(user *models.User, reason string) {
	if s.notifier == nil || user == nil {
		return
	}

	email := notify.StatusEmail{
		Email:             user.Email,
		Name:              user.Name,
		Status:            user.Status,
		Reason:            reason,
		SuspensionEndDate: user.SuspensionEndDate,
		SuspensionCount:   user.SuspensionCount,
	}
	userID := user.ID.String()

	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()

		if err := s.notifier.SendStatusEmail(ctx, email); err != nil {
			s.observer.NotificationFailed()
			logger.WithError(err, logrus.Fields{"user_id": userID, "status": email.Status}).Warn("status email not sent")
		}
	})
}
