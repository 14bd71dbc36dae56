package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
)

// WriteError writes a consistent JSON error response. Internal faults are
// logged with their cause and reported as a generic error; expected failures
// are returned with their code and message.
func WriteError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.ErrInternalServer
	}

	if apperrors.Kind(err) == apperrors.KindInternal {
		fields := []interface{}{
			"code", appErr.Code,
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(requestIDKey),
		}
		if appErr.Internal != nil {
			fields = append(fields, "internal", appErr.Internal.Error())
		}
		logger.Get().Errorw("internal fault", fields...)
	} else if appErr.Internal != nil {
		logger.Get().Debugw("request failed",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"request_id", c.GetString(requestIDKey),
		)
	}

	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into consistent JSON error responses, unless a response has already
// been written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		WriteError(c, c.Errors.Last().Err)
	}
}

// NotFound answers unknown routes with the standard error body.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    apperrors.ErrNotFound.Code,
				"message": "Route not found",
			},
		})
	}
}
