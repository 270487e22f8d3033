package service

import "github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"

// ModerationObserver получает сигналы о модерационных действиях (реализуется metrics.Metrics).
type ModerationObserver interface {
	ObserveTransition(entity, action, outcome string)
	AuditFailed()
	NotificationFailed()
}

type noopObserver struct{}

func (noopObserver) ObserveTransition(string, string, string) {}
func (noopObserver) AuditFailed()                             {}
func (noopObserver) NotificationFailed()                      {}

func observerOrNoop(o ModerationObserver) ModerationObserver {
	if o == nil {
		return noopObserver{}
	}
	return o
}

// outcome метка результата для ObserveTransition.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperror.IsInvalidTransition(err), apperror.IsValidation(err):
		return "rejected"
	case apperror.IsConflict(err):
		return "conflict"
	}
	return "error"
}

// optionalString возвращает nil для пустой строки.
func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
