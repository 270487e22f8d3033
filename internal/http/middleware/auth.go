package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
)

// ContextActorKey ключ актора в gin.Context.
const ContextActorKey = "actor"

// ActorResolver проверяет токен и возвращает актуального пользователя из базы.
type ActorResolver interface {
	ResolveActor(ctx context.Context, token string) (models.Actor, error)
}

// AuthMiddleware проверяет Bearer токен и кладёт актора в контекст.
func AuthMiddleware(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.Abort(c, apperror.ErrUnauthorized)
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// RequireAdmin пропускает только активных admin и superadmin.
// Ставится после AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			response.Abort(c, apperror.ErrUnauthorized)
			return
		}
		if !actor.IsAdmin() || actor.Status != models.UserStatusActive {
			response.Abort(c, apperror.Forbidden("admin access required"))
			return
		}
		c.Next()
	}
}

// CurrentActor достаёт актора, положенного AuthMiddleware.
func CurrentActor(c *gin.Context) (models.Actor, bool) {
	raw, exists := c.Get(ContextActorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := raw.(models.Actor)
	return actor, ok
}
