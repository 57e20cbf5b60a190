package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope of every gateway reply. Error carries field
// errors or the failed snapshot when there is more to say than Message.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     any    `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success writes a successful envelope
func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: c.GetString("RequestID"),
	})
}

// Error writes a failed envelope; details may be nil
func Error(c *gin.Context, code int, message string, details any) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     details,
		RequestID: c.GetString("RequestID"),
	})
}
