package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const (
	statusHistoryTable  = "user_status_history"
	defaultHistoryLimit = 20
)

// StatusHistoryRepository читает историю статусов пользователей.
type StatusHistoryRepository struct {
	gw *common.Gateway
}

func NewStatusHistoryRepository(gw *common.Gateway) *StatusHistoryRepository {
	return &StatusHistoryRepository{gw: gw}
}

// Append добавляет запись вне транзакции смены статуса.
func (r *StatusHistoryRepository) Append(ctx context.Context, userID uuid.UUID, status string, reason *string, changedBy *uuid.UUID) error {
	return appendHistory(ctx, r.gw, userID, status, reason, changedBy, time.Now().UTC())
}

// ListByUser возвращает историю пользователя, новые записи первыми.
func (r *StatusHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (common.ListResult[models.StatusHistoryEntry], error) {
	p := common.NewPage(page, limit, defaultHistoryLimit)
	entries, total, err := common.Find[models.StatusHistoryEntry](ctx, r.gw, statusHistoryTable,
		common.Where(common.Eq("user_id", userID)),
		common.Options{
			OrderBy: []common.Order{common.Desc("changed_at")},
			Offset:  p.Offset(),
			Limit:   p.Limit,
			Count:   true,
		})
	if err != nil {
		return common.ListResult[models.StatusHistoryEntry]{}, mapErr(err, "status history repository: list", nil)
	}
	return common.Result(entries, total, p), nil
}

// appendHistory вставляет запись истории через переданный шлюз, в том числе транзакционный.
func appendHistory(ctx context.Context, gw *common.Gateway, userID uuid.UUID, status string, reason *string, changedBy *uuid.UUID, at time.Time) error {
	_, err := common.Insert[models.StatusHistoryEntry](ctx, gw, statusHistoryTable, map[string]interface{}{
		"user_id":    userID,
		"status":     status,
		"reason":     reason,
		"changed_by": changedBy,
		"changed_at": at,
	})
	return mapErr(err, "status history repository: append", nil)
}
