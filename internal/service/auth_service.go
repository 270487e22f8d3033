package service

import (
	"context"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
)

// TokenVerifier проверяет bearer токен.
type TokenVerifier interface {
	ParseAccess(token string) (TokenClaims, error)
}

// AuthService превращает bearer токен в Actor по данным таблицы users.
type AuthService struct {
	tokens TokenVerifier
	users  UserLookup
}

func NewAuthService(tokens TokenVerifier, users UserLookup) *AuthService {
	return &AuthService{tokens: tokens, users: users}
}

// ResolveActor проверяет токен и загружает актуальные роль и статус пользователя.
// Роль из токена не используется: права всегда берутся из базы.
func (s *AuthService) ResolveActor(ctx context.Context, token string) (models.Actor, error) {
	if token == "" {
		return models.Actor{}, apperror.ErrUnauthorized
	}

	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return models.Actor{}, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "invalid or expired token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return models.Actor{}, apperror.ErrUnauthorized
		}
		return models.Actor{}, err
	}

	if user.DeletedAt != nil {
		return models.Actor{}, apperror.ErrUnauthorized
	}
	if user.Status == models.UserStatusBanned || user.Status == models.UserStatusInactive {
		return models.Actor{}, apperror.Forbidden("account is " + user.Status)
	}

	return actorFromUser(user), nil
}

func actorFromUser(u *models.User) models.Actor {
	return models.Actor{ID: u.ID, Role: u.Role, Status: u.Status, Email: u.Email}
}
