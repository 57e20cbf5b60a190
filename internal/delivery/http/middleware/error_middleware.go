package middleware

import (
	"errors"
	"go-agency-backend/internal/delivery/http/response"
	"go-agency-backend/pkg/apperror"
	"go-agency-backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error pushed with c.Error
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString("RequestID")

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError && appErr.Err != nil {
				logger.L().Error("Request failed", "error", appErr.Err, "status", appErr.Code, "path", c.FullPath(), "request_id", requestID)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Internal details stay in the log
		logger.L().Error("Internal server error", "error", err, "path", c.FullPath(), "request_id", requestID)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
