package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
)

// MaintenanceChecker сообщает, включён ли режим обслуживания.
type MaintenanceChecker interface {
	MaintenanceMode(ctx context.Context) (bool, error)
}

// MaintenanceMiddleware отвечает 503 всем, кроме администраторов, пока включён режим обслуживания.
// Если настройки недоступны, запрос пропускается.
func MaintenanceMiddleware(checker MaintenanceChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := CurrentActor(c); ok && actor.IsAdmin() {
			c.Next()
			return
		}

		enabled, err := checker.MaintenanceMode(c.Request.Context())
		if err != nil {
			logger.WithError(err, logrus.Fields{"path": c.Request.URL.Path}).Warn("maintenance check failed")
			c.Next()
			return
		}
		if enabled {
			response.Abort(c, apperror.ErrMaintenance)
			return
		}
		c.Next()
	}
}
