package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/services"
)

type UserSupplementHandler struct {
	userSupplementService services.UserSupplementService
}

func NewUserSupplementHandler(userSupplementService services.UserSupplementService) *UserSupplementHandler {
	return &UserSupplementHandler{userSupplementService: userSupplementService}
}

type addUserSupplementRequest struct {
	SupplementID  uuid.UUID `json:"supplement_id" binding:"required"`
	DefaultDosage *float64  `json:"default_dosage"`
	DefaultUnit   *string   `json:"default_unit"`
}

type updateUserSupplementRequest struct {
	DefaultDosage *float64 `json:"default_dosage"`
	DefaultUnit   *string  `json:"default_unit"`
}

func (h *UserSupplementHandler) List(c *gin.Context) {
	result, err := h.userSupplementService.List(c.Request.Context(), callerFrom(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *UserSupplementHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user supplement id"))
		return
	}
	result, err := h.userSupplementService.Get(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *UserSupplementHandler) Add(c *gin.Context) {
	var req addUserSupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	result, err := h.userSupplementService.Add(c.Request.Context(), callerFrom(c), services.AddUserSupplementInput{
		SupplementID:  req.SupplementID,
		DefaultDosage: req.DefaultDosage,
		DefaultUnit:   req.DefaultUnit,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, result)
}

func (h *UserSupplementHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user supplement id"))
		return
	}
	var req updateUserSupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	err = h.userSupplementService.Update(c.Request.Context(), callerFrom(c), id, services.UpdateUserSupplementInput{
		DefaultDosage: req.DefaultDosage,
		DefaultUnit:   req.DefaultUnit,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *UserSupplementHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user supplement id"))
		return
	}
	if err := h.userSupplementService.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}
