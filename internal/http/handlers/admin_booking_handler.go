package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/dto"
	"github.com/ignatzorin/iyaya-backend/internal/http/handlers/common"
	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	repocommon "github.com/ignatzorin/iyaya-backend/internal/repository/common"
	"github.com/ignatzorin/iyaya-backend/internal/service"
)

// BookingModerator модерация бронирований.
type BookingModerator interface {
	List(ctx context.Context, f repository.BookingFilter, page, limit int) (repocommon.ListResult[models.Booking], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Transition(ctx context.Context, actor models.Actor, id uuid.UUID, action valueobject.BookingAction, reason string) (*models.Booking, error)
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, in service.BookingUpdateInput) (*models.Booking, error)
}

// AdminBookingHandler /api/admin/bookings.
type AdminBookingHandler struct {
	bookings BookingModerator
}

func NewAdminBookingHandler(bookings BookingModerator) *AdminBookingHandler {
	return &AdminBookingHandler{bookings: bookings}
}

// List GET /bookings
func (h *AdminBookingHandler) List(c *gin.Context) {
	var q dto.BookingListQuery
	if !common.BindQuery(c, &q) {
		return
	}
	filter, err := q.Filter()
	if err != nil {
		common.Invalid(c, err)
		return
	}
	result, err := h.bookings.List(c.Request.Context(), filter, q.Page, q.Limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Get GET /bookings/:id
func (h *AdminBookingHandler) Get(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, booking)
}

// Update PATCH /bookings/:id
func (h *AdminBookingHandler) Update(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookingRequest
	if !common.BindJSON(c, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		common.Invalid(c, err)
		return
	}

	booking, err := h.bookings.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, booking)
}

// Transition POST /bookings/:id/<action>
func (h *AdminBookingHandler) Transition(action valueobject.BookingAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := common.CurrentActor(c)
		if !ok {
			return
		}
		id, ok := common.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req dto.TransitionRequest
		if !common.BindOptionalJSON(c, &req) {
			return
		}

		booking, err := h.bookings.Transition(c.Request.Context(), actor, id, action, req.Reason)
		if err != nil {
			common.Fail(c, err)
			return
		}
		response.Success(c, booking)
	}
}
