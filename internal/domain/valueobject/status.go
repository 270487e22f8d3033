package valueobject

import (
	"fmt"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
)

// Transition описывает допустимый переход: из какого набора статусов и в какой.
type Transition struct {
	Allowed []string
	Target  string
	// AuditOnly означает, что статус не меняется, действие только фиксируется в журнале.
	AuditOnly bool
}

// admits проверяет текущий статус с учётом приведения переходных названий к хранимым.
func (t Transition) admits(current string, normalize func(string) string) bool {
	for _, status := range t.Allowed {
		if status == current || normalize(status) == current {
			return true
		}
	}
	return false
}

// NormalizeJobStatus приводит переходные названия вакансий к хранимому набору.
func NormalizeJobStatus(status string) string {
	switch status {
	case models.JobStatusPending, models.JobStatusOpen:
		return models.JobStatusActive
	case models.JobStatusConfirmed:
		return models.JobStatusFilled
	case models.JobStatusInactive:
		return models.JobStatusCancelled
	}
	return status
}

// IsPersistedJobStatus сообщает, можно ли записать статус в таблицу jobs как есть.
func IsPersistedJobStatus(status string) bool {
	switch status {
	case models.JobStatusActive, models.JobStatusFilled, models.JobStatusCancelled, models.JobStatusCompleted:
		return true
	}
	return false
}

type JobAction string

const (
	JobApprove  JobAction = "approve"
	JobReject   JobAction = "reject"
	JobCancel   JobAction = "cancel"
	JobComplete JobAction = "complete"
	JobReopen   JobAction = "reopen"
)

// AuditAction название действия в журнале аудита.
func (a JobAction) AuditAction() string {
	switch a {
	case JobApprove:
		return "APPROVE_JOB"
	case JobReject:
		return "REJECT_JOB"
	case JobCancel:
		return "CANCEL_JOB"
	case JobComplete:
		return "COMPLETE_JOB"
	case JobReopen:
		return "REOPEN_JOB"
	}
	return "UPDATE_JOB"
}

// JobTransitions таблица переходов вакансий.
type JobTransitions map[JobAction]Transition

// NewJobTransitions строит таблицу с настраиваемым статусом для approve.
func NewJobTransitions(approveTarget string) (JobTransitions, error) {
	target := NormalizeJobStatus(approveTarget)
	if !IsPersistedJobStatus(target) {
		return nil, fmt.Errorf("valueobject: неизвестный статус для approve: %q", approveTarget)
	}

	return JobTransitions{
		JobApprove: {
			Allowed: []string{models.JobStatusPending, models.JobStatusOpen, models.JobStatusActive},
			Target:  target,
		},
		JobReject: {
			Allowed: []string{models.JobStatusPending, models.JobStatusOpen, models.JobStatusActive},
			Target:  models.JobStatusCancelled,
		},
		JobCancel: {
			Allowed: []string{models.JobStatusOpen, models.JobStatusConfirmed, models.JobStatusPending, models.JobStatusActive},
			Target:  models.JobStatusCancelled,
		},
		JobComplete: {
			Allowed: []string{models.JobStatusConfirmed, models.JobStatusOpen, models.JobStatusActive},
			Target:  models.JobStatusCompleted,
		},
		JobReopen: {
			Allowed: []string{models.JobStatusCancelled, models.JobStatusCompleted, models.JobStatusInactive},
			Target:  models.JobStatusActive,
		},
	}, nil
}

// Resolve возвращает целевой статус или InvalidTransition, если текущий статус не в списке.
func (t JobTransitions) Resolve(action JobAction, current string) (Transition, error) {
	tr, ok := t[action]
	if !ok {
		return Transition{}, apperror.Validation(fmt.Sprintf("unknown job action: %s", action))
	}
	if !tr.admits(current, NormalizeJobStatus) {
		return Transition{}, apperror.InvalidTransition("job", string(action), current, tr.Target)
	}
	return tr, nil
}

type BookingAction string

const (
	BookingConfirm  BookingAction = "confirm"
	BookingStart    BookingAction = "start"
	BookingComplete BookingAction = "complete"
	BookingCancel   BookingAction = "cancel"
)

// AuditAction название действия в журнале аудита.
func (a BookingAction) AuditAction() string {
	switch a {
	case BookingConfirm:
		return "CONFIRM_BOOKING"
	case BookingStart:
		return "START_BOOKING"
	case BookingComplete:
		return "COMPLETE_BOOKING"
	case BookingCancel:
		return "CANCEL_BOOKING"
	}
	return "UPDATE_BOOKING"
}

// BookingTransitions фиксированная таблица переходов бронирований.
var BookingTransitions = map[BookingAction]Transition{
	BookingConfirm: {
		Allowed: []string{models.BookingStatusPending},
		Target:  models.BookingStatusConfirmed,
	},
	BookingStart: {
		Allowed:   []string{models.BookingStatusConfirmed},
		Target:    models.BookingStatusConfirmed,
		AuditOnly: true,
	},
	BookingComplete: {
		Allowed: []string{models.BookingStatusConfirmed},
		Target:  models.BookingStatusCompleted,
	},
	BookingCancel: {
		Allowed: []string{models.BookingStatusPending, models.BookingStatusConfirmed},
		Target:  models.BookingStatusCancelled,
	},
}

// ResolveBooking возвращает переход для действия над бронированием.
func ResolveBooking(action BookingAction, current string) (Transition, error) {
	tr, ok := BookingTransitions[action]
	if !ok {
		return Transition{}, apperror.Validation(fmt.Sprintf("unknown booking action: %s", action))
	}
	if !tr.admits(current, func(s string) string { return s }) {
		return Transition{}, apperror.InvalidTransition("booking", string(action), current, tr.Target)
	}
	return tr, nil
}

// IsBookingStatus проверяет значение по хранимому набору.
func IsBookingStatus(status string) bool {
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCompleted, models.BookingStatusCancelled:
		return true
	}
	return false
}

// jobActionOrder порядок перебора действий при смене статуса по целевому значению.
var jobActionOrder = []JobAction{JobApprove, JobReject, JobCancel, JobComplete, JobReopen}

// ResolveTarget подбирает действие, которое переводит вакансию из current в target.
func (t JobTransitions) ResolveTarget(current, target string) (JobAction, Transition, error) {
	normalized := NormalizeJobStatus(target)
	if !IsPersistedJobStatus(normalized) {
		return "", Transition{}, apperror.Validation(fmt.Sprintf("unknown job status: %s", target))
	}
	for _, action := range jobActionOrder {
		tr, ok := t[action]
		if !ok || tr.Target != normalized {
			continue
		}
		if tr.admits(current, NormalizeJobStatus) {
			return action, tr, nil
		}
	}
	return "", Transition{}, apperror.InvalidTransition("job", "update", current, normalized)
}

var bookingActionOrder = []BookingAction{BookingConfirm, BookingComplete, BookingCancel}

// ResolveBookingTarget подбирает действие для смены статуса бронирования на target.
func ResolveBookingTarget(current, target string) (BookingAction, Transition, error) {
	if !IsBookingStatus(target) {
		return "", Transition{}, apperror.Validation(fmt.Sprintf("unknown booking status: %s", target))
	}
	for _, action := range bookingActionOrder {
		tr := BookingTransitions[action]
		if tr.Target == target && tr.admits(current, func(s string) string { return s }) {
			return action, tr, nil
		}
	}
	return "", Transition{}, apperror.InvalidTransition("booking", "update", current, target)
}
