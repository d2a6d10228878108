package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/services"
)

type SupplementTypeHandler struct {
	typeCatalog services.TypeCatalogService
}

func NewSupplementTypeHandler(typeCatalog services.TypeCatalogService) *SupplementTypeHandler {
	return &SupplementTypeHandler{typeCatalog: typeCatalog}
}

type supplementTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *SupplementTypeHandler) List(c *gin.Context) {
	result, err := h.typeCatalog.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *SupplementTypeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid type id"))
		return
	}
	result, err := h.typeCatalog.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *SupplementTypeHandler) Create(c *gin.Context) {
	var req supplementTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	result, err := h.typeCatalog.Create(c.Request.Context(), callerFrom(c), req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, result)
}

func (h *SupplementTypeHandler) Rename(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid type id"))
		return
	}
	var req supplementTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	if err := h.typeCatalog.Rename(c.Request.Context(), callerFrom(c), id, req.Name); err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *SupplementTypeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid type id"))
		return
	}
	if err := h.typeCatalog.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}
