package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/middleware"
	"github.com/vitalog/vitalog-backend/internal/policy"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps a service error to its HTTP status and machine code.
// Plain errors fall through as 500 internal_error.
func RespondError(c *gin.Context, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(apierr.StatusOf(err), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apierr.CodeOf(err),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func callerFrom(c *gin.Context) policy.Caller {
	id := middleware.CallerID(c)
	if id == "" {
		return policy.Anonymous()
	}
	return policy.User(id)
}
