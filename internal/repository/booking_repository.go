package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const (
	bookingsTable        = "bookings"
	defaultBookingsLimit = 10
)

var bookingEmbeds = []string{"parent", "caregiver"}

// BookingFilter параметры списка бронирований.
type BookingFilter struct {
	Status      string
	ParentID    *uuid.UUID
	CaregiverID *uuid.UUID
	JobID       *uuid.UUID
	// UserID находит бронирования, где пользователь родитель или сиделка.
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
}

// CreateBookingParams данные нового бронирования.
type CreateBookingParams struct {
	ParentID    uuid.UUID
	CaregiverID uuid.UUID
	JobID       *uuid.UUID
	StartTime   *time.Time
	EndTime     *time.Time
	Notes       *string
}

// BookingPatch редактируемые поля. nil означает "не менять".
type BookingPatch struct {
	StartTime *time.Time
	EndTime   *time.Time
	Notes     *string
}

func (p BookingPatch) values() map[string]interface{} {
	values := map[string]interface{}{}
	if p.StartTime != nil {
		values["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		values["end_time"] = *p.EndTime
	}
	if p.Notes != nil {
		values["notes"] = *p.Notes
	}
	return values
}

// BookingRepository работает с таблицей bookings.
type BookingRepository struct {
	gw *common.Gateway
}

func NewBookingRepository(gw *common.Gateway) *BookingRepository {
	return &BookingRepository{gw: gw}
}

func (r *BookingRepository) Create(ctx context.Context, in CreateBookingParams) (*models.Booking, error) {
	booking, err := common.Insert[models.Booking](ctx, r.gw, bookingsTable, map[string]interface{}{
		"parent_id":    in.ParentID,
		"caregiver_id": in.CaregiverID,
		"job_id":       in.JobID,
		"start_time":   in.StartTime,
		"end_time":     in.EndTime,
		"notes":        in.Notes,
		"status":       models.BookingStatusPending,
	})
	if err != nil {
		return nil, mapErr(err, "booking repository: create", nil)
	}
	booking.FillTotalHours()
	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := common.FindOne[models.Booking](ctx, r.gw, bookingsTable, common.Where(common.Eq("id", id)), common.Options{})
	if err != nil {
		return nil, mapErr(err, "booking repository: get by id", apperror.ErrBookingNotFound)
	}
	booking.FillTotalHours()
	return booking, nil
}

// GetByIDDetailed возвращает бронирование с карточками участников.
func (r *BookingRepository) GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := findOneEmbedded(ctx, r.gw, bookingsTable, common.Where(common.Eq("id", id)), bookingEmbeds, bookingUserRefs)
	if err != nil {
		return nil, mapErr(err, "booking repository: get detailed", apperror.ErrBookingNotFound)
	}
	booking.FillTotalHours()
	return booking, nil
}

// List возвращает страницу бронирований, новые первыми.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter, page, limit int) (common.ListResult[models.Booking], error) {
	p := common.NewPage(page, limit, defaultBookingsLimit)

	filter := common.Filter{}
	if f.Status != "" {
		filter = filter.And(common.Eq("status", f.Status))
	}
	if f.ParentID != nil {
		filter = filter.And(common.Eq("parent_id", *f.ParentID))
	}
	if f.CaregiverID != nil {
		filter = filter.And(common.Eq("caregiver_id", *f.CaregiverID))
	}
	if f.JobID != nil {
		filter = filter.And(common.Eq("job_id", *f.JobID))
	}
	if f.UserID != nil {
		filter = filter.And(common.Or(common.Eq("parent_id", *f.UserID), common.Eq("caregiver_id", *f.UserID)))
	}
	if f.From != nil {
		filter = filter.And(common.Gte("start_time", *f.From))
	}
	if f.To != nil {
		filter = filter.And(common.Lte("start_time", *f.To))
	}

	bookings, total, err := findEmbedded(ctx, r.gw, bookingsTable, filter, common.Options{
		OrderBy: []common.Order{common.Desc("created_at")},
		Offset:  p.Offset(),
		Limit:   p.Limit,
		Count:   true,
		Embed:   bookingEmbeds,
	}, bookingUserRefs)
	if err != nil {
		return common.ListResult[models.Booking]{}, mapErr(err, "booking repository: list", nil)
	}
	for i := range bookings {
		bookings[i].FillTotalHours()
	}
	return common.Result(bookings, total, p), nil
}

// UpdateStatus записывает статус, только если текущий всё ещё равен from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Booking, error) {
	booking, err := common.Update[models.Booking](ctx, r.gw, bookingsTable,
		common.Where(common.Eq("id", id), common.Eq("status", from)),
		map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if err != nil {
		return nil, mapCASErr(err, "booking repository: update status")
	}
	booking.FillTotalHours()
	return booking, nil
}

// Update меняет время и заметки бронирования.
func (r *BookingRepository) Update(ctx context.Context, id uuid.UUID, patch BookingPatch) (*models.Booking, error) {
	values := patch.values()
	if len(values) == 0 {
		return r.GetByID(ctx, id)
	}
	values["updated_at"] = time.Now().UTC()

	booking, err := common.Update[models.Booking](ctx, r.gw, bookingsTable, common.Where(common.Eq("id", id)), values)
	if err != nil {
		return nil, mapErr(err, "booking repository: update", apperror.ErrBookingNotFound)
	}
	booking.FillTotalHours()
	return booking, nil
}
