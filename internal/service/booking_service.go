package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

// BookingStore описывает зависимости BookingService от хранилища.
type BookingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, f repository.BookingFilter, page, limit int) (common.ListResult[models.Booking], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Booking, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.BookingPatch) (*models.Booking, error)
}

// BookingUpdateInput изменения бронирования из PATCH запроса.
type BookingUpdateInput struct {
	Patch  repository.BookingPatch
	Status string
	Reason string
}

// BookingService модерация бронирований.
type BookingService struct {
	bookings BookingStore
	audit    AuditRecorder
	observer ModerationObserver
}

func NewBookingService(bookings BookingStore, audit AuditRecorder, observer ModerationObserver) *BookingService {
	return &BookingService{bookings: bookings, audit: audit, observer: observerOrNoop(observer)}
}

func (s *BookingService) List(ctx context.Context, f repository.BookingFilter, page, limit int) (common.ListResult[models.Booking], error) {
	return s.bookings.List(ctx, f, page, limit)
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetByIDDetailed(ctx, id)
}

// Transition выполняет действие над бронированием. start только фиксируется в журнале.
func (s *BookingService) Transition(ctx context.Context, actor models.Actor, id uuid.UUID, action valueobject.BookingAction, reason string) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := valueobject.ResolveBooking(action, booking.Status)
	if err != nil {
		s.observer.ObserveTransition("booking", string(action), outcome(err))
		return nil, err
	}

	if err := s.apply(ctx, actor, booking, action, tr, reason); err != nil {
		return nil, err
	}
	return s.bookings.GetByIDDetailed(ctx, id)
}

// Update меняет время и заметки. Если указан статус, подбирает действие по целевому статусу.
func (s *BookingService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in BookingUpdateInput) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := booking.StartTime, booking.EndTime
	if in.Patch.StartTime != nil {
		start = in.Patch.StartTime
	}
	if in.Patch.EndTime != nil {
		end = in.Patch.EndTime
	}
	if start != nil && end != nil && !end.After(*start) {
		return nil, apperror.Validation("end_time must be after start_time")
	}

	var (
		action valueobject.BookingAction
		tr     valueobject.Transition
	)
	changeStatus := in.Status != "" && in.Status != booking.Status
	if changeStatus {
		action, tr, err = valueobject.ResolveBookingTarget(booking.Status, in.Status)
		if err != nil {
			s.observer.ObserveTransition("booking", "update", outcome(err))
			return nil, err
		}
	}

	if fields := bookingPatchFields(in.Patch); len(fields) > 0 {
		if _, err := s.bookings.Update(ctx, id, in.Patch); err != nil {
			return nil, err
		}
		s.audit.Record(ctx, AuditEntry{
			AdminID:  actor.ID,
			Action:   models.AuditUpdateBooking,
			TargetID: id.String(),
			Metadata: models.JSONMap{"fields": fields},
		})
	}

	if changeStatus {
		if err := s.apply(ctx, actor, booking, action, tr, in.Reason); err != nil {
			return nil, err
		}
	}

	return s.bookings.GetByIDDetailed(ctx, id)
}

func (s *BookingService) apply(ctx context.Context, actor models.Actor, booking *models.Booking, action valueobject.BookingAction, tr valueobject.Transition, reason string) error {
	if !tr.AuditOnly {
		_, err := s.bookings.UpdateStatus(ctx, booking.ID, booking.Status, tr.Target)
		s.observer.ObserveTransition("booking", string(action), outcome(err))
		if err != nil {
			return err
		}
	} else {
		s.observer.ObserveTransition("booking", string(action), "ok")
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   action.AuditAction(),
		TargetID: booking.ID.String(),
		Metadata: models.JSONMap{"from": booking.Status, "to": tr.Target, "reason": reason},
	})
	return nil
}

func bookingPatchFields(p repository.BookingPatch) []string {
	var fields []string
	if p.StartTime != nil {
		fields = append(fields, "start_time")
	}
	if p.EndTime != nil {
		fields = append(fields, "end_time")
	}
	if p.Notes != nil {
		fields = append(fields, "notes")
	}
	return fields
}
