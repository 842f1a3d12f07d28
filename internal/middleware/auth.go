package middleware

import (
	"crypto/subtle"

	"notifier/internal/common"

	"github.com/gin-gonic/gin"
)

// Auth returns middleware that checks the X-API-Key header against validKeys.
// With no keys configured every request is rejected.
func Auth(validKeys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		switch {
		case apiKey == "":
			common.HandleError(c, common.NewUnauthorizedError("missing X-API-Key header"))
		case !isValidKey(apiKey, validKeys):
			common.HandleError(c, common.NewUnauthorizedError("invalid API key"))
		default:
			c.Next()
			return
		}
		c.Abort()
	}
}

// isValidKey compares key against each valid key in constant time.
func isValidKey(key string, validKeys []string) bool {
	for _, valid := range validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
			return true
		}
	}
	return false
}
