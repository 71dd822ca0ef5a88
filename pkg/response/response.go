package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// Error writes an error body and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		RequestID: ctx.GetString("request_id"),
		Details:   details,
	})
}

// Success writes an operation-specific payload.
func Success(ctx *gin.Context, status int, payload interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, payload)
}
