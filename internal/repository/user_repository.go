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
	usersTable             = "users"
	caregiverProfilesTable = "caregiver_profiles"
	defaultUsersLimit      = 20
)

var userSearchColumns = []string{"name", "email"}

// UserFilter параметры списка пользователей.
type UserFilter struct {
	Role           string
	Status         string
	Search         string
	IncludeDeleted bool
}

// CreateUserParams данные для создания аккаунта.
type CreateUserParams struct {
	ID    *uuid.UUID
	Email string
	Name  string
	Role  string
}

// UserStatusChange описывает запись нового статуса вместе с полями приостановки.
// Строка обновляется, только если её статус всё ещё равен ExpectedStatus.
type UserStatusChange struct {
	ExpectedStatus    string
	Status            string
	Reason            *string
	ChangedBy         *uuid.UUID
	At                time.Time
	SuspensionEndDate *time.Time
	ClearSuspension   bool
	SuspensionCount   *int
	LastSuspensionAt  *time.Time
	DeletedAt         *time.Time
	DeletedBy         *uuid.UUID
}

func (c UserStatusChange) patch() map[string]interface{} {
	patch := map[string]interface{}{
		"status":            c.Status,
		"status_reason":     c.Reason,
		"status_updated_at": c.At,
		"status_updated_by": c.ChangedBy,
		"updated_at":        c.At,
	}
	if c.SuspensionEndDate != nil {
		patch["suspension_end_date"] = *c.SuspensionEndDate
	} else if c.ClearSuspension {
		patch["suspension_end_date"] = nil
	}
	if c.SuspensionCount != nil {
		patch["suspension_count"] = *c.SuspensionCount
	}
	if c.LastSuspensionAt != nil {
		patch["last_suspension_at"] = *c.LastSuspensionAt
	}
	if c.DeletedAt != nil {
		patch["deleted_at"] = *c.DeletedAt
		patch["deleted_by"] = c.DeletedBy
	}
	return patch
}

// CaregiverProfileInput поля профиля сиделки, которые может менять владелец.
type CaregiverProfileInput struct {
	Bio             *string
	ExperienceYears int
	HourlyRate      *float64
}

// UserRepository работает с таблицами users, caregiver_profiles и user_status_history.
type UserRepository struct {
	gw *common.Gateway
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(gw *common.Gateway) *UserRepository {
	return &UserRepository{gw: gw}
}

// Create создаёт аккаунт со статусом active.
func (r *UserRepository) Create(ctx context.Context, in CreateUserParams) (*models.User, error) {
	values := map[string]interface{}{
		"email":  in.Email,
		"name":   in.Name,
		"role":   in.Role,
		"status": models.UserStatusActive,
	}
	if in.ID != nil {
		values["id"] = *in.ID
	}
	user, err := common.Insert[models.User](ctx, r.gw, usersTable, values)
	if err != nil {
		return nil, mapErr(err, "user repository: create", nil)
	}
	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := common.FindOne[models.User](ctx, r.gw, usersTable, common.Where(common.Eq("id", id)), common.Options{})
	if err != nil {
		return nil, mapErr(err, "user repository: get by id", apperror.ErrUserNotFound)
	}
	return user, nil
}

// GetByIDDetailed возвращает пользователя вместе с профилем сиделки.
func (r *UserRepository) GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.User, error) {
	filter := common.Where(common.Eq("id", id))
	user, err := common.FindOne[models.User](ctx, r.gw, usersTable, filter, common.Options{Embed: []string{"caregiver_profile"}})
	if err != nil && common.IsRelationUnresolved(err) {
		user, err = common.FindOne[models.User](ctx, r.gw, usersTable, filter, common.Options{})
		if err == nil {
			profile, perr := r.GetCaregiverProfile(ctx, id)
			if perr != nil && !apperror.IsNotFound(perr) {
				return nil, perr
			}
			user.CaregiverProfile = profile
		}
	}
	if err != nil {
		return nil, mapErr(err, "user repository: get detailed", apperror.ErrUserNotFound)
	}
	return user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := common.FindOne[models.User](ctx, r.gw, usersTable, common.Where(common.Eq("email", email)), common.Options{})
	if err != nil {
		return nil, mapErr(err, "user repository: get by email", apperror.ErrUserNotFound)
	}
	return user, nil
}

// List возвращает страницу пользователей, новые первыми. Удалённые скрыты, если не запрошены явно.
func (r *UserRepository) List(ctx context.Context, f UserFilter, page, limit int) (common.ListResult[models.User], error) {
	p := common.NewPage(page, limit, defaultUsersLimit)

	filter := common.Where(common.Search(f.Search, userSearchColumns...))
	if f.Role != "" {
		filter = filter.And(common.Eq("role", f.Role))
	}
	if f.Status != "" {
		filter = filter.And(common.Eq("status", f.Status))
	}
	if !f.IncludeDeleted {
		filter = filter.And(common.IsNull("deleted_at"))
	}

	users, total, err := common.Find[models.User](ctx, r.gw, usersTable, filter, common.Options{
		OrderBy: []common.Order{common.Desc("created_at")},
		Offset:  p.Offset(),
		Limit:   p.Limit,
		Count:   true,
	})
	if err != nil {
		return common.ListResult[models.User]{}, mapErr(err, "user repository: list", nil)
	}
	return common.Result(users, total, p), nil
}

// UpdateStatusWithHistory записывает статус и добавляет запись в историю в одной транзакции.
func (r *UserRepository) UpdateStatusWithHistory(ctx context.Context, id uuid.UUID, change UserStatusChange) (*models.User, error) {
	var updated *models.User
	err := r.gw.InTx(ctx, func(tx *common.Gateway) error {
		user, err := common.Update[models.User](ctx, tx, usersTable,
			common.Where(common.Eq("id", id), common.Eq("status", change.ExpectedStatus)),
			change.patch(),
		)
		if err != nil {
			return mapCASErr(err, "user repository: update status")
		}
		if err := appendHistory(ctx, tx, id, change.Status, change.Reason, change.ChangedBy, change.At); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateRole меняет роль пользователя.
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	user, err := common.Update[models.User](ctx, r.gw, usersTable, common.Where(common.Eq("id", id)), map[string]interface{}{
		"role":       role,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, mapErr(err, "user repository: update role", apperror.ErrUserNotFound)
	}
	return user, nil
}

// ReactivateExpired снимает приостановку со всех, у кого она истекла к моменту now.
// Повторный вызов ничего не меняет: выбираются только строки со статусом suspended.
func (r *UserRepository) ReactivateExpired(ctx context.Context, now time.Time, reason string) ([]models.User, error) {
	var reactivated []models.User
	err := r.gw.InTx(ctx, func(tx *common.Gateway) error {
		users, err := common.UpdateAll[models.User](ctx, tx, usersTable,
			common.Where(
				common.Eq("status", models.UserStatusSuspended),
				common.NotNull("suspension_end_date"),
				common.Lte("suspension_end_date", now),
			),
			map[string]interface{}{
				"status":              models.UserStatusActive,
				"status_reason":       reason,
				"status_updated_at":   now,
				"status_updated_by":   nil,
				"suspension_end_date": nil,
				"updated_at":          now,
			},
		)
		if err != nil {
			return mapErr(err, "user repository: reactivate expired", nil)
		}
		for _, u := range users {
			if err := appendHistory(ctx, tx, u.ID, models.UserStatusActive, &reason, nil, now); err != nil {
				return err
			}
		}
		reactivated = users
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reactivated, nil
}

// GetCaregiverProfile возвращает профиль сиделки.
func (r *UserRepository) GetCaregiverProfile(ctx context.Context, userID uuid.UUID) (*models.CaregiverProfile, error) {
	profile, err := common.FindOne[models.CaregiverProfile](ctx, r.gw, caregiverProfilesTable,
		common.Where(common.Eq("user_id", userID)), common.Options{})
	if err != nil {
		return nil, mapErr(err, "user repository: get caregiver profile", apperror.NotFound("caregiver profile not found"))
	}
	return profile, nil
}

// UpsertCaregiverProfile создаёт профиль при первой записи или обновляет существующий.
func (r *UserRepository) UpsertCaregiverProfile(ctx context.Context, userID uuid.UUID, in CaregiverProfileInput) (*models.CaregiverProfile, error) {
	profile, err := common.Upsert[models.CaregiverProfile](ctx, r.gw, caregiverProfilesTable, "user_id", map[string]interface{}{
		"user_id":          userID,
		"bio":              in.Bio,
		"experience_years": in.ExperienceYears,
		"hourly_rate":      in.HourlyRate,
		"updated_at":       time.Now().UTC(),
	})
	if err != nil {
		return nil, mapErr(err, "user repository: upsert caregiver profile", nil)
	}
	return profile, nil
}
