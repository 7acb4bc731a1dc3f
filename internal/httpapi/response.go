// ABOUTME: JSON response envelopes for the HTTP API
// ABOUTME: Errors carry a message and a stable machine-readable code
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in ErrorEnvelope
const (
	CodeBadRequest   = "bad_request"
	CodeInvalidDay   = "invalid_day"
	CodeNotFound     = "not_found"
	CodeUnavailable  = "unavailable"
	CodeInternal     = "internal"
	CodeCoachFailure = "coach_failed"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
