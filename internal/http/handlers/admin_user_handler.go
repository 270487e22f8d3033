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
	"github.com/ignatzorin/iyaya-backend/internal/service"
)

// UserManager операции с аккаунтами.
type UserManager interface {
	List(ctx context.Context, f repository.UserFilter, page, limit int) (repocommon.ListResult[models.User], error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, actor models.Actor, in service.CreateUserInput) (*models.User, error)
	ChangeRole(ctx context.Context, actor models.Actor, userID uuid.UUID, role string) (*models.User, error)
}

// UserStatusManager жизненный цикл статуса аккаунта.
type UserStatusManager interface {
	UpdateStatus(ctx context.Context, actor models.Actor, userID uuid.UUID, status string, opts service.StatusOptions) (*models.User, error)
	BulkUpdateStatus(ctx context.Context, actor models.Actor, ids []uuid.UUID, status string, opts service.StatusOptions) (*service.BulkStatusResult, error)
	SoftDelete(ctx context.Context, actor models.Actor, userID uuid.UUID, reason string) error
	GetStatusHistory(ctx context.Context, userID uuid.UUID, page, limit int) (repocommon.ListResult[models.StatusHistoryEntry], error)
}

// AdminUserHandler /api/admin/users.
type AdminUserHandler struct {
	users    UserManager
	statuses UserStatusManager
}

func NewAdminUserHandler(users UserManager, statuses UserStatusManager) *AdminUserHandler {
	return &AdminUserHandler{users: users, statuses: statuses}
}

// List GET /users
func (h *AdminUserHandler) List(c *gin.Context) {
	var q dto.UserListQuery
	if !common.BindQuery(c, &q) {
		return
	}
	result, err := h.users.List(c.Request.Context(), q.Filter(), q.Page, q.Limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Get GET /users/:id
func (h *AdminUserHandler) Get(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, user)
}

// Create POST /users
func (h *AdminUserHandler) Create(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var req dto.CreateUserRequest
	if !common.BindJSON(c, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		common.Invalid(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), actor, in)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateStatus PATCH /users/:id/status
func (h *AdminUserHandler) UpdateStatus(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserStatusRequest
	if !common.BindJSON(c, &req) {
		return
	}
	opts, err := req.Options()
	if err != nil {
		common.Invalid(c, err)
		return
	}

	user, err := h.statuses.UpdateStatus(c.Request.Context(), actor, id, req.Status, opts)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, user)
}

// BulkUpdateStatus POST /users/bulk/status
func (h *AdminUserHandler) BulkUpdateStatus(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var req dto.BulkUserStatusRequest
	if !common.BindJSON(c, &req) {
		return
	}
	ids, err := req.ParseUserIDs()
	if err != nil {
		common.Invalid(c, err)
		return
	}
	opts, err := req.Options()
	if err != nil {
		common.Invalid(c, err)
		return
	}

	result, err := h.statuses.BulkUpdateStatus(c.Request.Context(), actor, ids, req.Status, opts)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// ChangeRole PATCH /users/:id/role
func (h *AdminUserHandler) ChangeRole(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeRoleRequest
	if !common.BindJSON(c, &req) {
		return
	}

	user, err := h.users.ChangeRole(c.Request.Context(), actor, id, req.Role)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, user)
}

// Delete DELETE /users/:id
func (h *AdminUserHandler) Delete(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.DeleteUserRequest
	if !common.BindOptionalJSON(c, &req) {
		return
	}

	if err := h.statuses.SoftDelete(c.Request.Context(), actor, id, req.Reason); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StatusHistory GET /users/:id/status-history
func (h *AdminUserHandler) StatusHistory(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if !common.BindQuery(c, &q) {
		return
	}
	result, err := h.statuses.GetStatusHistory(c.Request.Context(), id, q.Page, q.Limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, result)
}
