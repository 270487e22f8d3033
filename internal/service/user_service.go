package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

// UserStore описывает зависимости UserService от хранилища.
type UserStore interface {
	Create(ctx context.Context, in repository.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, f repository.UserFilter, page, limit int) (common.ListResult[models.User], error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
	UpsertCaregiverProfile(ctx context.Context, userID uuid.UUID, in repository.CaregiverProfileInput) (*models.CaregiverProfile, error)
}

// CreateUserInput данные аккаунта, создаваемого администратором.
type CreateUserInput struct {
	ID    *uuid.UUID
	Email string
	Name  string
	Role  string
}

// UserService чтение аккаунтов, создание, смена роли и профиль сиделки.
type UserService struct {
	users UserStore
	audit AuditRecorder
}

func NewUserService(users UserStore, audit AuditRecorder) *UserService {
	return &UserService{users: users, audit: audit}
}

func (s *UserService) List(ctx context.Context, f repository.UserFilter, page, limit int) (common.ListResult[models.User], error) {
	return s.users.List(ctx, f, page, limit)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByIDDetailed(ctx, id)
}

// Create заводит аккаунт. Роли администраторов может выдавать только superadmin.
func (s *UserService) Create(ctx context.Context, actor models.Actor, in CreateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, apperror.Validation("invalid email")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	role := in.Role
	if role == "" {
		role = models.RoleParent
	}
	if _, ok := models.ValidRoles[role]; !ok {
		return nil, apperror.Validation(fmt.Sprintf("invalid role: %s", role))
	}
	if models.IsAdminRole(role) && !actor.IsSuperadmin() {
		return nil, apperror.Forbidden("only a superadmin can create admin accounts")
	}

	user, err := s.users.Create(ctx, repository.CreateUserParams{ID: in.ID, Email: email, Name: name, Role: role})
	if err != nil {
		if apperror.IsConflict(err) {
			return nil, apperror.Wrap(err, apperror.ErrCodeConflict, "user with this email already exists")
		}
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditCreateUser,
		TargetID: user.ID.String(),
		Metadata: models.JSONMap{"email": user.Email, "role": user.Role},
	})
	return user, nil
}

// ChangeRole меняет роль. Любая операция с ролями администраторов требует superadmin.
func (s *UserService) ChangeRole(ctx context.Context, actor models.Actor, userID uuid.UUID, role string) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if _, ok := models.ValidRoles[role]; !ok {
		return nil, apperror.Validation(fmt.Sprintf("invalid role: %s", role))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if (models.IsAdminRole(user.Role) || models.IsAdminRole(role)) && !actor.IsSuperadmin() {
		return nil, apperror.Forbidden("only a superadmin can grant or revoke admin roles")
	}
	if user.ID == actor.ID {
		return nil, apperror.Forbidden("cannot change your own role")
	}
	if user.Role == role {
		return user, nil
	}

	updated, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditChangeUserRole,
		TargetID: userID.String(),
		Metadata: models.JSONMap{"from": user.Role, "to": role},
	})
	return updated, nil
}

// Profile возвращает аккаунт текущего пользователя вместе с профилем сиделки.
func (s *UserService) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.users.GetByIDDetailed(ctx, actor.ID)
}

// UpdateCaregiverProfile сохраняет профиль сиделки от имени её самой.
func (s *UserService) UpdateCaregiverProfile(ctx context.Context, actor models.Actor, in repository.CaregiverProfileInput) (*models.CaregiverProfile, error) {
	if actor.Role != models.RoleCaregiver {
		return nil, apperror.Forbidden("only caregivers have a caregiver profile")
	}
	if in.ExperienceYears < 0 {
		return nil, apperror.Validation("experience_years cannot be negative")
	}
	if err := valueobject.ValidateAmount("hourly_rate", in.HourlyRate); err != nil {
		return nil, err
	}
	if in.HourlyRate != nil {
		rate := valueobject.RoundAmount(*in.HourlyRate)
		in.HourlyRate = &rate
	}
	return s.users.UpsertCaregiverProfile(ctx, actor.ID, in)
}
