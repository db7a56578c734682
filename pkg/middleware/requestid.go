package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"library_service/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags the request with an id, reusing an incoming one, and
// installs a request scoped logger carrying it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set("request_id", requestID)
		logger.WithLogger(c, logger.GetLogger().With(zap.String("request_id", requestID)))
		c.Next()
	}
}
