package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

// userRef ссылка строки на пользователя и поле, куда подставляется его краткая карточка.
type userRef struct {
	id   *uuid.UUID
	slot **models.UserSummary
}

func jobUserRefs(j *models.Job) []userRef {
	return []userRef{{id: &j.ParentID, slot: &j.Parent}, {id: j.CaregiverID, slot: &j.Caregiver}}
}

func bookingUserRefs(b *models.Booking) []userRef {
	return []userRef{{id: &b.ParentID, slot: &b.Parent}, {id: &b.CaregiverID, slot: &b.Caregiver}}
}

func paymentUserRefs(p *models.Payment) []userRef {
	return []userRef{{id: &p.ParentID, slot: &p.Parent}, {id: &p.CaregiverID, slot: &p.Caregiver}}
}

func reportUserRefs(r *models.UserReport) []userRef {
	return []userRef{{id: &r.ReporterID, slot: &r.Reporter}, {id: &r.ReportedUserID, slot: &r.ReportedUser}}
}

// collectUserIDs возвращает уникальные id пользователей в порядке первого появления.
func collectUserIDs[T any](items []T, refs func(*T) []userRef) []string {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]string, 0)
	for i := range items {
		for _, ref := range refs(&items[i]) {
			if ref.id == nil || *ref.id == uuid.Nil {
				continue
			}
			if _, ok := seen[*ref.id]; ok {
				continue
			}
			seen[*ref.id] = struct{}{}
			ids = append(ids, ref.id.String())
		}
	}
	return ids
}

// mergeUsers подставляет карточки пользователей в строки. Неизвестные id остаются nil.
func mergeUsers[T any](items []T, refs func(*T) []userRef, users map[uuid.UUID]*models.UserSummary) {
	for i := range items {
		for _, ref := range refs(&items[i]) {
			if ref.id == nil {
				continue
			}
			if u, ok := users[*ref.id]; ok {
				*ref.slot = u
			}
		}
	}
}

// attachUsers загружает связанных пользователей одним запросом и подмешивает их в строки.
func attachUsers[T any](ctx context.Context, gw *common.Gateway, items []T, refs func(*T) []userRef) error {
	ids := collectUserIDs(items, refs)
	if len(ids) == 0 {
		return nil
	}

	users, _, err := common.Find[models.User](ctx, gw, "users", common.Where(common.In("id", ids)), common.Options{
		Columns: []string{"id", "name", "email", "role"},
	})
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}
	mergeUsers(items, refs, byID)
	return nil
}

// findEmbedded выполняет выборку со встраиванием пользователей. Если связь не разрешается,
// запрос повторяется без встраивания, а пользователи подгружаются отдельным пакетным запросом.
func findEmbedded[T any](ctx context.Context, gw *common.Gateway, table string, filter common.Filter, opts common.Options, refs func(*T) []userRef) ([]T, int, error) {
	items, total, err := common.Find[T](ctx, gw, table, filter, opts)
	if err == nil || !common.IsRelationUnresolved(err) || len(opts.Embed) == 0 {
		return items, total, err
	}

	logger.Log.WithFields(logrus.Fields{"table": table, "embed": opts.Embed, "error": err}).
		Warn("embed unresolved, falling back to batched merge")

	opts.Embed = nil
	items, total, err = common.Find[T](ctx, gw, table, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	if err := attachUsers(ctx, gw, items, refs); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// findOneEmbedded то же, что findEmbedded, для одной строки.
func findOneEmbedded[T any](ctx context.Context, gw *common.Gateway, table string, filter common.Filter, embed []string, refs func(*T) []userRef) (*T, error) {
	item, err := common.FindOne[T](ctx, gw, table, filter, common.Options{Embed: embed})
	if err == nil || !common.IsRelationUnresolved(err) {
		return item, err
	}

	logger.Log.WithFields(logrus.Fields{"table": table, "embed": embed, "error": err}).
		Warn("embed unresolved, falling back to batched merge")

	item, err = common.FindOne[T](ctx, gw, table, filter, common.Options{})
	if err != nil {
		return nil, err
	}
	items := []T{*item}
	if err := attachUsers(ctx, gw, items, refs); err != nil {
		return nil, err
	}
	return &items[0], nil
}
