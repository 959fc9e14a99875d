package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-coop-api/internal/config"
)

var (
	defaultOrigins = []string{"http://localhost:3000", "http://localhost:3001", "http://127.0.0.1:3000"}
	defaultMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	defaultHeaders = []string{"Accept", "Content-Type", "Origin", "X-Request-ID"}

	// headers the POS client must be able to send and read for retries and backoff
	requiredHeaders = []string{IdempotencyKeyHeader}
	exposedHeaders  = []string{
		"Content-Length", "Content-Type", "X-Request-ID",
		"X-Idempotency-Replayed", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
	}
)

// CORSMiddleware builds the CORS policy from config, falling back to local development origins.
// A "*" origin allows every origin without credentials.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:  withRequired(orDefault(cfg.AllowedHeaders, defaultHeaders), requiredHeaders),
		ExposeHeaders: exposedHeaders,
		MaxAge:        12 * time.Hour,
	}

	origins := orDefault(cfg.AllowedOrigins, defaultOrigins)
	if contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func withRequired(headers, required []string) []string {
	out := append([]string{}, headers...)
	for _, h := range required {
		if !contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if http.CanonicalHeaderKey(v) == http.CanonicalHeaderKey(want) || v == want {
			return true
		}
	}
	return false
}
