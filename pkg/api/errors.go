package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library_service/pkg/apperr"
	"library_service/pkg/logger"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyExists, apperr.KindInvalidInput, apperr.KindBookNotAvailable,
		apperr.KindReservedMissing, apperr.KindBorrowedMissing:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError renders err as {"message": ...}, or as an array of field
// errors for a failed validation. Errors outside the taxonomy are logged
// and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindInternal {
		logger.FromContext(c).Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	status := statusFor(appErr.Kind)
	if len(appErr.Fields) > 0 {
		c.JSON(status, appErr.Fields)
		return
	}
	c.JSON(status, gin.H{"message": appErr.Message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
