package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-counter/pkg/logger"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware tags every request with an id and logs it once it has
// been served.
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		message := fmt.Sprintf("%s %s | %d | %v | %s",
			c.Request.Method,
			path,
			status,
			time.Since(start),
			c.ClientIP(),
		)

		switch {
		case status >= 500:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			log.Error("http_request", requestID, message, err)
		case status >= 400:
			log.Warn("http_request", requestID, message, nil)
		default:
			log.Info("http_request", requestID, message)
		}
	}
}
