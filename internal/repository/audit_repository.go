package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const (
	auditLogsTable    = "audit_logs"
	defaultAuditLimit = 25
)

// AuditFilter параметры чтения журнала.
type AuditFilter struct {
	Action   string
	TargetID string
	AdminID  *uuid.UUID
}

// AuditLogRepository только добавляет и читает записи журнала.
type AuditLogRepository struct {
	gw *common.Gateway
}

func NewAuditLogRepository(gw *common.Gateway) *AuditLogRepository {
	return &AuditLogRepository{gw: gw}
}

func (r *AuditLogRepository) Create(ctx context.Context, adminID uuid.UUID, action, targetID string, metadata models.JSONMap) (*models.AuditLogEntry, error) {
	entry, err := common.Insert[models.AuditLogEntry](ctx, r.gw, auditLogsTable, map[string]interface{}{
		"admin_id":  adminID,
		"action":    action,
		"target_id": targetID,
		"metadata":  metadata,
	})
	if err != nil {
		return nil, mapErr(err, "audit repository: create", nil)
	}
	return entry, nil
}

// List возвращает записи журнала, новые первыми.
func (r *AuditLogRepository) List(ctx context.Context, f AuditFilter, page, limit int) (common.ListResult[models.AuditLogEntry], error) {
	p := common.NewPage(page, limit, defaultAuditLimit)

	filter := common.Filter{}
	if f.Action != "" {
		filter = filter.And(common.Eq("action", f.Action))
	}
	if f.TargetID != "" {
		filter = filter.And(common.Eq("target_id", f.TargetID))
	}
	if f.AdminID != nil {
		filter = filter.And(common.Eq("admin_id", *f.AdminID))
	}

	entries, total, err := common.Find[models.AuditLogEntry](ctx, r.gw, auditLogsTable, filter, common.Options{
		OrderBy: []common.Order{common.Desc("created_at")},
		Offset:  p.Offset(),
		Limit:   p.Limit,
		Count:   true,
	})
	if err != nil {
		return common.ListResult[models.AuditLogEntry]{}, mapErr(err, "audit repository: list", nil)
	}
	return common.Result(entries, total, p), nil
}
