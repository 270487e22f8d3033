package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Empty(t, body.Error)
}

func TestError_AppError(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Error(c, apperror.ErrPaymentNotFound) })

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "payment not found", body.Error)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestError_MasksUnknownErrors(t *testing.T) {
	SetDebug(false)
	w, body := serve(t, func(c *gin.Context) { Error(c, errors.New("pq: connection refused")) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "internal server error", body.Error)
	assert.Empty(t, body.Debug)
}

func TestError_DebugCause(t *testing.T) {
	SetDebug(true)
	t.Cleanup(func() { SetDebug(false) })

	_, body := serve(t, func(c *gin.Context) {
		Error(c, apperror.Internal(errors.New("pq: connection refused"), "failed to load payment"))
	})

	assert.Equal(t, "failed to load payment", body.Error)
	assert.Equal(t, "pq: connection refused", body.Debug)
}
