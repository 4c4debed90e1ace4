package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seriseptian210525/odoo-stock-dashboard/pkg/logger"
)

// PasswordHeader carries the dashboard password on API requests.
const PasswordHeader = "X-Dashboard-Password"

// PasswordGate guards the API with a shared password. An empty configured
// password disables the gate entirely.
func PasswordGate(password string) gin.HandlerFunc {
	if password == "" {
		logger.Log.Warn().Msg("APP_PASSWORD not set, dashboard auth disabled")
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		supplied := c.GetHeader(PasswordHeader)
		if supplied == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				supplied = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if subtle.ConstantTimeCompare([]byte(supplied), []byte(password)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}
		c.Next()
	}
}
