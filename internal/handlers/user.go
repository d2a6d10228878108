package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateProfileRequest struct {
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Height      *float64   `json:"height"`
	Weight      *float64   `json:"weight"`
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetMe(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), services.UpdateProfileInput{
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Height:      req.Height,
		Weight:      req.Weight,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}
