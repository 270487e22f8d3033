package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/dto"
	"github.com/ignatzorin/iyaya-backend/internal/http/handlers/common"
	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	repocommon "github.com/ignatzorin/iyaya-backend/internal/repository/common"
	"github.com/ignatzorin/iyaya-backend/internal/service"
)

// ReportManager жалобы пользователей.
type ReportManager interface {
	Create(ctx context.Context, reporter models.Actor, in service.CreateReportInput) (*models.UserReport, error)
	List(ctx context.Context, f repository.ReportFilter, page, limit int) (repocommon.ListResult[models.UserReport], error)
	Get(ctx context.Context, id uuid.UUID) (*models.UserReport, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, in service.ReportStatusInput) (*models.UserReport, error)
}

type ReportHandler struct {
	reports ReportManager
}

func NewReportHandler(reports ReportManager) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var req dto.CreateReportRequest
	if !common.BindJSON(c, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		common.Invalid(c, err)
		return
	}

	report, err := h.reports.Create(c.Request.Context(), actor, in)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Created(c, report)
}

// List GET /api/admin/reports
func (h *ReportHandler) List(c *gin.Context) {
	var q dto.ReportListQuery
	if !common.BindQuery(c, &q) {
		return
	}
	result, err := h.reports.List(c.Request.Context(), q.Filter(), q.Page, q.Limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Get GET /api/admin/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, report)
}

// UpdateStatus PATCH /api/admin/reports/:id/status
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReportStatusRequest
	if !common.BindJSON(c, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		common.Invalid(c, err)
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), actor, id, in)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, report)
}
