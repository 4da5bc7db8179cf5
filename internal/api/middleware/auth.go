package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/pkg/logger"
)

// UserResolver resolves a device identifier to a user, registering the
// device on first contact
type UserResolver interface {
	GetOrCreateByDeviceID(ctx context.Context, deviceID string) (*entities.User, error)
}

// DeviceAuth identifies the caller by the x-device-id header. Unknown
// devices are registered transparently; a missing header is rejected.
func DeviceAuth(users UserResolver, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader("x-device-id")
		if deviceID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "x-device-id header is required",
			})
			c.Abort()
			return
		}

		user, err := users.GetOrCreateByDeviceID(c.Request.Context(), deviceID)
		if err != nil {
			log.Errorw("Failed to resolve device", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "failed to resolve device",
			})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}

// CronSecret guards internal endpoints with a shared-secret header
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("x-cron-secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    "FORBIDDEN",
				"message": "invalid cron secret",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user from the request context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
