package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/iyaya-backend/internal/http/handlers/common"
	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
)

// SettingsManager системные настройки.
type SettingsManager interface {
	Get(ctx context.Context) (*models.SystemSettings, error)
	Update(ctx context.Context, actor models.Actor, patch repository.SettingsPatch) (*models.SystemSettings, error)
}

type SettingsHandler struct {
	settings SettingsManager
}

func NewSettingsHandler(settings SettingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get GET /api/admin/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, settings)
}

// Update PATCH /api/admin/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var patch repository.SettingsPatch
	if !common.BindJSON(c, &patch) {
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), actor, patch)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, settings)
}
