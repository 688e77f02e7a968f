package middleware

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from a stored result.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *logger.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a POST carries an
// Idempotency-Key already seen for the same operator. A terminal that
// retries "Place Order" after a timeout gets the first order back instead
// of a second one. Only successful responses are stored.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		username := c.GetString(ContextUsername)
		if key == "" || username == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		existing, err := config.Repo.GetByKey(ctx, key, username)
		if err != nil {
			if config.Log != nil {
				config.Log.Warn("idempotency_lookup", logger.RequestID(ctx), "idempotency lookup failed", err)
			}
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}

		record := &entity.IdempotencyRecord{
			Key:          key,
			Username:     username,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			ResponseCode: c.Writer.Status(),
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(ctx, record); err != nil && config.Log != nil {
			config.Log.Warn("idempotency_store", logger.RequestID(ctx), "idempotency record not stored", err)
		}
	}
}
