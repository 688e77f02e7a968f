package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/config"
)

// terminalOrigin is where the counter UI is served from in development.
const terminalOrigin = "http://localhost:3000"

var (
	counterMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}
	counterHeaders = []string{
		"Accept", "Authorization", "Content-Type", "Origin", RequestIDHeader, IdempotencyKeyHeader,
	}
	// Headers the terminal reads from responses.
	counterExposedHeaders = []string{
		"Content-Length", "Content-Type", RequestIDHeader, IdempotencyReplayedHeader,
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
	}
)

// CORSMiddleware lets the counter terminal call the API from the browser.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     withHeader(cfg.AllowedHeaders, IdempotencyKeyHeader),
		ExposeHeaders:    counterExposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{terminalOrigin}
	}
	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = counterMethods
	}
	if len(cfg.AllowedHeaders) == 0 {
		corsConfig.AllowHeaders = counterHeaders
	}

	return cors.New(corsConfig)
}

// withHeader appends h unless it is already listed.
func withHeader(headers []string, h string) []string {
	for _, existing := range headers {
		if strings.EqualFold(existing, h) {
			return headers
		}
	}
	return append(headers, h)
}
