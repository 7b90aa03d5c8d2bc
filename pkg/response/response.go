// Package response implements the JSON envelope every endpoint of the
// browser-facing group replies with. Logical failures ride inside the
// data payload as a messageType discriminator and are never surfaced
// as transport-level errors; only the external API group uses real
// HTTP status codes.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Result is the {data, status, message} envelope
type Result struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Success writes a 200 envelope. Logical errors also travel through
// here, carried in data as {"message": ..., "messageType": "error"}.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Result{
		Data:    data,
		Status:  http.StatusOK,
		Message: "success",
	})
}

// Error writes a 400 envelope. Reserved for malformed requests and the
// top-level catch-all, the same places the browser client expects it.
func Error(c *gin.Context, data any) {
	c.JSON(http.StatusBadRequest, Result{
		Data:    data,
		Status:  http.StatusBadRequest,
		Message: "error",
	})
}

// Payload builds the message/messageType pair carried in data
func Payload(message, messageType string) gin.H {
	return gin.H{
		"message":     message,
		"messageType": messageType,
	}
}

// ErrorPayload is shorthand for a logical failure inside a success envelope
func ErrorPayload(message string) gin.H {
	return Payload(message, "error")
}

// SuccessPayload is shorthand for a confirmation message
func SuccessPayload(message string) gin.H {
	return Payload(message, "success")
}
