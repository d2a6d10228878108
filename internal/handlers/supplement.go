package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/services"
)

type SupplementHandler struct {
	supplementService services.SupplementService
}

func NewSupplementHandler(supplementService services.SupplementService) *SupplementHandler {
	return &SupplementHandler{supplementService: supplementService}
}

type createSupplementRequest struct {
	Name               string      `json:"name" binding:"required"`
	Description        *string     `json:"description"`
	DeficiencySymptoms *string     `json:"deficiency_symptoms"`
	IsGlobal           bool        `json:"is_global"`
	TypeIDs            []uuid.UUID `json:"type_ids"`
}

type updateSupplementRequest struct {
	Name               string      `json:"name" binding:"required"`
	Description        *string     `json:"description"`
	DeficiencySymptoms *string     `json:"deficiency_symptoms"`
	TypeIDs            []uuid.UUID `json:"type_ids"`
}

// List returns global supplements plus the caller's own by default. The
// optional "global" query parameter narrows to exactly the global set (true)
// or exactly the caller's own set (false, authenticated only).
func (h *SupplementHandler) List(c *gin.Context) {
	var filter services.SupplementListFilter
	if raw, ok := c.GetQuery("global"); ok {
		onlyGlobal, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, apierr.Validation("invalid global parameter %q", raw))
			return
		}
		filter.OnlyGlobal = &onlyGlobal
	}
	result, err := h.supplementService.List(c.Request.Context(), callerFrom(c), filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *SupplementHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid supplement id"))
		return
	}
	result, err := h.supplementService.Get(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *SupplementHandler) Create(c *gin.Context) {
	var req createSupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	result, err := h.supplementService.Create(c.Request.Context(), callerFrom(c), services.CreateSupplementInput{
		Name:               req.Name,
		Description:        req.Description,
		DeficiencySymptoms: req.DeficiencySymptoms,
		IsGlobal:           req.IsGlobal,
		TypeIDs:            req.TypeIDs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, result)
}

func (h *SupplementHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid supplement id"))
		return
	}
	var req updateSupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	err = h.supplementService.Update(c.Request.Context(), callerFrom(c), id, services.UpdateSupplementInput{
		Name:               req.Name,
		Description:        req.Description,
		DeficiencySymptoms: req.DeficiencySymptoms,
		TypeIDs:            req.TypeIDs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *SupplementHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid supplement id"))
		return
	}
	if err := h.supplementService.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}
