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

// JobModerator модерация вакансий.
type JobModerator interface {
	List(ctx context.Context, f repository.JobFilter, page, limit int) (repocommon.ListResult[models.Job], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Transition(ctx context.Context, actor models.Actor, id uuid.UUID, action valueobject.JobAction, reason string) (*models.Job, error)
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, in service.JobUpdateInput) (*models.Job, error)
}

// AdminJobHandler /api/admin/jobs.
type AdminJobHandler struct {
	jobs JobModerator
}

func NewAdminJobHandler(jobs JobModerator) *AdminJobHandler {
	return &AdminJobHandler{jobs: jobs}
}

// List GET /jobs
func (h *AdminJobHandler) List(c *gin.Context) {
	var q dto.JobListQuery
	if !common.BindQuery(c, &q) {
		return
	}
	result, err := h.jobs.List(c.Request.Context(), q.Filter(), q.Page, q.Limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Get GET /jobs/:id
func (h *AdminJobHandler) Get(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, job)
}

// Update PATCH /jobs/:id
func (h *AdminJobHandler) Update(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateJobRequest
	if !common.BindJSON(c, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		common.Invalid(c, err)
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, job)
}

// Transition POST /jobs/:id/<action>
func (h *AdminJobHandler) Transition(action valueobject.JobAction) gin.HandlerFunc {
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

		job, err := h.jobs.Transition(c.Request.Context(), actor, id, action, req.Reason)
		if err != nil {
			common.Fail(c, err)
			return
		}
		response.Success(c, job)
	}
}
