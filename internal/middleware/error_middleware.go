package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// HandleActionError writes the JSON failure response of a delete endpoint.
// Known error classes carry their own message; anything else is logged and
// answered with fallback.
func HandleActionError(c *gin.Context, err error, fallback string) {
	status := ErrorStatus(err)
	message := fallback
	if status != http.StatusInternalServerError {
		message = apperrors.Message(err, fallback)
	} else {
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)
		_ = c.Error(err)
	}

	c.JSON(status, dto.ActionResponse{Success: false, Message: message})
}

// ErrorStatus maps an application error class to an HTTP status
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrHasDependents, apperrors.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
