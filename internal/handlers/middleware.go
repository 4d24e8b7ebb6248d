package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/session"
	"github.com/unifiedcampus/admin-gateway/internal/upstream"
)

const upstreamTokenKey = "upstreamToken"

// RequireSession gates every management route. It resolves the session
// token from the Authorization header into the upstream bearer token and
// stashes it in the request context; anything without a live session gets
// a 401 and never reaches the backend.
func RequireSession(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		upstreamToken, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.Error("Failed to resolve session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session expired or logged out"})
			return
		}

		c.Set(upstreamTokenKey, upstreamToken)
		c.Next()
	}
}

// CORSMiddleware allows the browser admin client to call the gateway from
// another origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func contextToken(c *gin.Context) string {
	return c.GetString(upstreamTokenKey)
}

// respondUpstreamError maps a failed backend call onto our response: the
// backend's status and message pass through untouched, transport failures
// become a 502 with the call site's fallback message.
func respondUpstreamError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"message": apiErr.Message})
		return
	}

	logger.Error("Upstream call failed", zap.String("fallback", fallback), zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
}
