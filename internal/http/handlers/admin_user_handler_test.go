package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	repocommon "github.com/ignatzorin/iyaya-backend/internal/repository/common"
	"github.com/ignatzorin/iyaya-backend/internal/service"
)

func userRoutes(actor *models.Actor, users *mockUserManager, statuses *mockUserStatusManager) http.Handler {
	h := NewAdminUserHandler(users, statuses)
	r := newTestRouter(actor)
	r.GET("/users", h.List)
	r.POST("/users", h.Create)
	r.GET("/users/:id", h.Get)
	r.PATCH("/users/:id/status", h.UpdateStatus)
	r.POST("/users/bulk/status", h.BulkUpdateStatus)
	r.PATCH("/users/:id/role", h.ChangeRole)
	r.DELETE("/users/:id", h.Delete)
	r.GET("/users/:id/status-history", h.StatusHistory)
	return r
}

func TestAdminUserHandler_ListPassesFilter(t *testing.T) {
	users := new(mockUserManager)
	r := userRoutes(&testAdmin, users, new(mockUserStatusManager))

	filter := repository.UserFilter{Role: models.RoleCaregiver, Status: models.UserStatusSuspended, Search: "mary"}
	users.On("List", mock.Anything, filter, 2, 10).
		Return(repocommon.ListResult[models.User]{Items: []models.User{{ID: uuid.New()}}, Total: 11, Page: 2, Limit: 10}, nil)

	w, resp := perform(r, http.MethodGet, "/users?role=caregiver&status=suspended&search=%20mary%20&page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	var page repocommon.ListResult[models.User]
	require.NoError(t, dataAs(resp, &page))
	assert.Equal(t, 11, page.Total)
	assert.Len(t, page.Items, 1)
}

func TestAdminUserHandler_UpdateStatus(t *testing.T) {
	statuses := new(mockUserStatusManager)
	r := userRoutes(&testAdmin, new(mockUserManager), statuses)

	id := uuid.New()
	statuses.On("UpdateStatus", mock.Anything, testAdmin, id, models.UserStatusSuspended, service.StatusOptions{Reason: "spam", DurationDays: 3}).
		Return(&models.User{ID: id, Status: models.UserStatusSuspended}, nil)

	w, resp := perform(r, http.MethodPatch, "/users/"+id.String()+"/status", map[string]interface{}{
		"status": "suspended", "reason": "spam", "duration_days": 3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, dataAs(resp, &user))
	assert.Equal(t, models.UserStatusSuspended, user.Status)
}

func TestAdminUserHandler_UpdateStatusErrors(t *testing.T) {
	statuses := new(mockUserStatusManager)
	r := userRoutes(&testAdmin, new(mockUserManager), statuses)

	w, resp := perform(r, http.MethodPatch, "/users/not-a-uuid/status", map[string]string{"status": "banned"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", resp.Code)

	w, resp = perform(r, http.MethodPatch, "/users/"+uuid.NewString()+"/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)

	conflicted := uuid.New()
	statuses.On("UpdateStatus", mock.Anything, testAdmin, conflicted, models.UserStatusBanned, mock.Anything).
		Return(nil, apperror.ErrStatusConflict)
	w, resp = perform(r, http.MethodPatch, "/users/"+conflicted.String()+"/status", map[string]string{"status": "banned"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", resp.Code)

	statuses.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestAdminUserHandler_BulkUpdateStatus(t *testing.T) {
	statuses := new(mockUserStatusManager)
	r := userRoutes(&testAdmin, new(mockUserManager), statuses)

	a, b := uuid.New(), uuid.New()
	statuses.On("BulkUpdateStatus", mock.Anything, testAdmin, []uuid.UUID{a, b}, models.UserStatusBanned, service.StatusOptions{Reason: "fraud ring"}).
		Return(&service.BulkStatusResult{Updated: []models.User{{ID: a}}, FailedCount: 1}, nil)

	w, resp := perform(r, http.MethodPost, "/users/bulk/status", map[string]interface{}{
		"user_ids": []string{a.String(), b.String(), a.String()},
		"status":   "banned",
		"reason":   "fraud ring",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.BulkStatusResult
	require.NoError(t, dataAs(resp, &result))
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.Updated, 1)

	w, _ = perform(r, http.MethodPost, "/users/bulk/status", map[string]interface{}{"user_ids": []string{"x"}, "status": "banned"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	statuses.AssertNumberOfCalls(t, "BulkUpdateStatus", 1)
}

func TestAdminUserHandler_Create(t *testing.T) {
	users := new(mockUserManager)
	r := userRoutes(&testAdmin, users, new(mockUserStatusManager))

	created := &models.User{ID: uuid.New(), Email: "nanny@example.com", Role: models.RoleCaregiver}
	users.On("Create", mock.Anything, testAdmin, service.CreateUserInput{Email: "nanny@example.com", Name: "Mary", Role: "caregiver"}).
		Return(created, nil)

	w, resp := perform(r, http.MethodPost, "/users", map[string]string{"email": "nanny@example.com", "name": "Mary", "role": "caregiver"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)

	w, resp = perform(r, http.MethodPost, "/users", map[string]string{"email": "nanny@example.com", "name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
}

func TestAdminUserHandler_ChangeRoleForbidden(t *testing.T) {
	users := new(mockUserManager)
	r := userRoutes(&testAdmin, users, new(mockUserStatusManager))

	id := uuid.New()
	users.On("ChangeRole", mock.Anything, testAdmin, id, models.RoleAdmin).Return(nil, apperror.Forbidden("only a superadmin can grant admin roles"))

	w, resp := perform(r, http.MethodPatch, "/users/"+id.String()+"/role", map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "only a superadmin can grant admin roles", resp.Error)
}

func TestAdminUserHandler_Delete(t *testing.T) {
	statuses := new(mockUserStatusManager)
	r := userRoutes(&testAdmin, new(mockUserManager), statuses)

	id := uuid.New()
	statuses.On("SoftDelete", mock.Anything, testAdmin, id, "").Return(nil)
	w, _ := perform(r, http.MethodDelete, "/users/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	gone := uuid.New()
	statuses.On("SoftDelete", mock.Anything, testAdmin, gone, "duplicate").Return(apperror.New(apperror.ErrCodeConflict, "user is already deleted"))
	w, _ = perform(r, http.MethodDelete, "/users/"+gone.String(), map[string]string{"reason": "duplicate"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminUserHandler_StatusHistory(t *testing.T) {
	statuses := new(mockUserStatusManager)
	r := userRoutes(&testAdmin, new(mockUserManager), statuses)

	id := uuid.New()
	statuses.On("GetStatusHistory", mock.Anything, id, 0, 0).
		Return(repocommon.ListResult[models.StatusHistoryEntry]{Items: []models.StatusHistoryEntry{}, Page: 1, Limit: 20}, nil)

	w, _ := perform(r, http.MethodGet, "/users/"+id.String()+"/status-history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminUserHandler_RequiresActor(t *testing.T) {
	r := userRoutes(nil, new(mockUserManager), new(mockUserStatusManager))

	w, resp := perform(r, http.MethodPatch, "/users/"+uuid.NewString()+"/status", map[string]string{"status": "banned"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Code)
}
