package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/services"
)

type IntakeLogHandler struct {
	intakeService services.IntakeService
}

func NewIntakeLogHandler(intakeService services.IntakeService) *IntakeLogHandler {
	return &IntakeLogHandler{intakeService: intakeService}
}

type createIntakeLogRequest struct {
	SupplementID uuid.UUID  `json:"supplement_id" binding:"required"`
	Quantity     int        `json:"quantity" binding:"required"`
	Dosage       float64    `json:"dosage" binding:"required"`
	Unit         string     `json:"unit" binding:"required"`
	TakenAt      *time.Time `json:"taken_at"`
}

type batchCreateIntakeLogRequest struct {
	Logs []createIntakeLogRequest `json:"logs" binding:"required"`
}

type updateIntakeLogRequest struct {
	Quantity *int     `json:"quantity"`
	Dosage   *float64 `json:"dosage"`
	Unit     *string  `json:"unit"`
}

func (h *IntakeLogHandler) List(c *gin.Context) {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		RespondError(c, err)
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		RespondError(c, err)
		return
	}
	result, err := h.intakeService.List(c.Request.Context(), callerFrom(c), from, to)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *IntakeLogHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid intake log id"))
		return
	}
	result, err := h.intakeService.Get(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *IntakeLogHandler) Create(c *gin.Context) {
	var req createIntakeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	result, err := h.intakeService.Create(c.Request.Context(), callerFrom(c), toCreateIntakeInput(req))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, result)
}

// CreateBatch answers 200 with the entries that were actually created; the
// result may be shorter than the input because invalid items are dropped, not
// reported.
func (h *IntakeLogHandler) CreateBatch(c *gin.Context) {
	var req batchCreateIntakeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	inputs := make([]services.CreateIntakeInput, 0, len(req.Logs))
	for _, item := range req.Logs {
		inputs = append(inputs, toCreateIntakeInput(item))
	}
	result, err := h.intakeService.CreateBatch(c.Request.Context(), callerFrom(c), inputs)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *IntakeLogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid intake log id"))
		return
	}
	var req updateIntakeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	err = h.intakeService.Update(c.Request.Context(), callerFrom(c), id, services.UpdateIntakeInput{
		Quantity: req.Quantity,
		Dosage:   req.Dosage,
		Unit:     req.Unit,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *IntakeLogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid intake log id"))
		return
	}
	if err := h.intakeService.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func toCreateIntakeInput(req createIntakeLogRequest) services.CreateIntakeInput {
	return services.CreateIntakeInput{
		SupplementID: req.SupplementID,
		Quantity:     req.Quantity,
		Dosage:       req.Dosage,
		Unit:         req.Unit,
		TakenAt:      req.TakenAt,
	}
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apierr.Validation("invalid %s parameter %q, expected RFC 3339", name, raw)
	}
	return &parsed, nil
}
