package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/iyaya-backend/internal/dto"
	"github.com/ignatzorin/iyaya-backend/internal/http/handlers/common"
	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	repocommon "github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

// AuditReader чтение журнала действий администраторов.
type AuditReader interface {
	GetLogs(ctx context.Context, f repository.AuditFilter, page, limit int) (repocommon.ListResult[models.AuditLogEntry], error)
}

type AuditHandler struct {
	audit AuditReader
}

func NewAuditHandler(audit AuditReader) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List GET /api/admin/audit
func (h *AuditHandler) List(c *gin.Context) {
	var q dto.AuditListQuery
	if !common.BindQuery(c, &q) {
		return
	}
	result, err := h.audit.GetLogs(c.Request.Context(), q.Filter(), q.Page, q.Limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, result)
}
