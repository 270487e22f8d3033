package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/http/middleware"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
)

// CurrentActor достаёт актора из контекста. Если его нет, кладёт ошибку 401 и возвращает false.
func CurrentActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		_ = c.Error(apperror.ErrUnauthorized)
	}
	return actor, ok
}

// ParseUUIDParam разбирает UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		_ = c.Error(apperror.New(apperror.ErrCodeBadRequest, "parameter "+paramName+" must be a valid UUID"))
		return uuid.Nil, false
	}
	return parsed, true
}

// BindJSON разбирает тело запроса. Ошибка разбора становится VALIDATION_ERROR.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body: "+err.Error()))
		return false
	}
	return true
}

// BindOptionalJSON как BindJSON, но пустое тело допустимо.
func BindOptionalJSON(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return BindJSON(c, req)
}

// BindQuery разбирает параметры запроса.
func BindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid query: "+err.Error()))
		return false
	}
	return true
}

// Fail кладёт ошибку сервиса в контекст, ответ сформирует ErrorHandler.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// Invalid кладёт ошибку валидации с текстом err.
func Invalid(c *gin.Context, err error) {
	_ = c.Error(apperror.Validation(err.Error()))
}
