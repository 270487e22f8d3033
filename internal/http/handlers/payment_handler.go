package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/dto"
	"github.com/ignatzorin/iyaya-backend/internal/http/handlers/common"
	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	repocommon "github.com/ignatzorin/iyaya-backend/internal/repository/common"
	"github.com/ignatzorin/iyaya-backend/internal/validation"
)

// PaymentModerator проверка оплат и подтверждений.
type PaymentModerator interface {
	List(ctx context.Context, f repository.PaymentFilter, page, limit int) (repocommon.ListResult[models.Payment], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status, notes string) (*models.Payment, error)
	Refund(ctx context.Context, actor models.Actor, id uuid.UUID, reason string) (*models.Payment, error)
	DeleteProof(ctx context.Context, actor models.Actor, paymentID, proofID uuid.UUID) error
}

// PaymentHandler /api/admin/payments.
type PaymentHandler struct {
	payments PaymentModerator
}

func NewPaymentHandler(payments PaymentModerator) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	var q dto.PaymentListQuery
	if !common.BindQuery(c, &q) {
		return
	}
	result, err := h.payments.List(c.Request.Context(), q.Filter(), q.Page, q.Limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Get GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, payment)
}

// UpdateStatus PATCH /payments/:id/status
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if !common.BindJSON(c, &req) {
		return
	}
	if err := validation.ValidateNotes("notes", req.Notes); err != nil {
		common.Invalid(c, err)
		return
	}

	payment, err := h.payments.UpdateStatus(c.Request.Context(), actor, id, req.Status, req.Notes)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, payment)
}

// Refund POST /payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RefundRequest
	if !common.BindOptionalJSON(c, &req) {
		return
	}
	if err := validation.ValidateNotes("reason", req.Reason); err != nil {
		common.Invalid(c, err)
		return
	}

	payment, err := h.payments.Refund(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, payment)
}

// DeleteProof DELETE /payments/:id/proofs/:proofId
func (h *PaymentHandler) DeleteProof(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	proofID, ok := common.ParseUUIDParam(c, "proofId")
	if !ok {
		return
	}

	if err := h.payments.DeleteProof(c.Request.Context(), actor, id, proofID); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
