package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/novamart/storefront/internal/config"
)

const userContextKey = "auth_user_id"

// AuthMiddleware verifies the portal's bearer API key against the configured
// bcrypt hash and resolves the acting user. Unauthenticated requests get a
// login hint carrying the return path instead of a browser redirect.
func AuthMiddleware(cfg config.APIConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		apiKey := strings.TrimPrefix(authHeader, "Bearer ")
		if apiKey == "" || apiKey == authHeader {
			unauthorized(c)
			return
		}

		if cfg.KeyHash == "" {
			logger.Error("API_KEY_HASH is not configured, rejecting request")
			unauthorized(c)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(cfg.KeyHash), []byte(apiKey)); err != nil {
			logger.Warn("Invalid API key", zap.String("path", c.Request.URL.Path))
			unauthorized(c)
			return
		}

		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			unauthorized(c)
			return
		}

		c.Set(userContextKey, userID)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "unauthorized",
		"login": "/login?returnTo=" + c.Request.URL.Path,
	})
}

// GetUserFromContext returns the authenticated user id set by AuthMiddleware.
func GetUserFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(userContextKey)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}
