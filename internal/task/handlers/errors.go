package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
)

// handleError writes the response for a failed request. Not-found and
// validation errors carry their message; everything else is logged and
// reported generically.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": appErr.Message})
			return
		case apperrors.ErrCodeValidationError, apperrors.ErrCodeBadRequest:
			body := gin.H{"error": appErr.Message}
			if len(appErr.Fields) > 0 {
				body["errors"] = appErr.Fields
			}
			c.JSON(appErr.HTTPStatus, body)
			return
		}
	}
	if errors.Is(err, context.Canceled) {
		log.WithContext(c.Request.Context()).Warn("request canceled", zap.String("path", c.FullPath()))
		c.AbortWithStatus(http.StatusRequestTimeout)
		return
	}
	log.WithContext(c.Request.Context()).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
}

func invalidPayload(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
}
