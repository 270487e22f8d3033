package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/iyaya-backend/internal/dto"
	"github.com/ignatzorin/iyaya-backend/internal/http/handlers/common"
	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
)

// ProfileService профиль текущего пользователя.
type ProfileService interface {
	Profile(ctx context.Context, actor models.Actor) (*models.User, error)
	UpdateCaregiverProfile(ctx context.Context, actor models.Actor, in repository.CaregiverProfileInput) (*models.CaregiverProfile, error)
}

// ProfileHandler отвечает за работу с профилем.
type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMe возвращает профиль текущего пользователя вместе с профилем сиделки.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	user, err := h.profiles.Profile(c.Request.Context(), actor)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateCaregiverProfile PUT /api/profile/caregiver
func (h *ProfileHandler) UpdateCaregiverProfile(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var req dto.UpdateCaregiverProfileRequest
	if !common.BindJSON(c, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		common.Invalid(c, err)
		return
	}

	profile, err := h.profiles.UpdateCaregiverProfile(c.Request.Context(), actor, in)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, profile)
}
