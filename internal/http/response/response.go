package response

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
)

// Response единый конверт ответа API.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Debug   string      `json:"debug,omitempty"`
}

var debug atomic.Bool

// SetDebug включает поле debug с причиной ошибки. В production выключено.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// Error отдаёт AppError как есть, всё остальное маскирует под INTERNAL_ERROR.
func Error(c *gin.Context, err error) {
	status, body := Render(err)
	c.JSON(status, body)
}

// Abort как Error, но прерывает цепочку middleware.
func Abort(c *gin.Context, err error) {
	status, body := Render(err)
	c.AbortWithStatusJSON(status, body)
}

// Render строит статус и тело ответа для ошибки.
func Render(err error) (int, Response) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err, "internal server error")
	}

	body := Response{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
	}
	if debug.Load() && appErr.Cause != nil {
		body.Debug = appErr.Cause.Error()
	}
	return appErr.HTTPStatus, body
}
