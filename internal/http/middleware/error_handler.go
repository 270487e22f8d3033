package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/logger"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Хэндлеры кладут ошибку через c.Error и выходят, ответ формируется здесь.
// Внутренние ошибки маскируются, причина попадает в лог.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, body := response.Render(err)

		fields := logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": status,
		}
		if actor, ok := CurrentActor(c); ok {
			fields["user_id"] = actor.ID.String()
		}
		if status >= 500 {
			logger.WithError(err, fields).Error("request failed")
		} else {
			logger.WithError(err, fields).Debug("request rejected")
		}

		c.JSON(status, body)
	}
}
