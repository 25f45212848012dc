package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"subscription-api/internal/config"
	"subscription-api/internal/database"
	"subscription-api/internal/models"
	"subscription-api/internal/response"
	"subscription-api/internal/services"
	"subscription-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the session token and stores the caller's user id
// and role in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from Authorization header
		token := c.GetHeader("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")

		// If not passed via header, try to get from query parameters
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing token"))
			c.Abort()
			return
		}

		claims, err := services.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("request_time", time.Now())
		c.Next()
	}
}

// AdminMiddleware requires an ADMIN session; must run after AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// PurchaseRateLimitMiddleware limits how often one user may hit the purchase
// endpoint, backed by Redis. Without Redis the limiter is a pass-through.
func PurchaseRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := database.GetRedis()
		if client == nil {
			c.Next()
			return
		}

		userID, exists := c.Get("user_id")
		if !exists {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:purchase:%v", userID)
		window := time.Duration(config.AppConfig.PurchaseRateLimitMinutes) * time.Minute

		ok, err := client.SetNX(c.Request.Context(), key, "1", window).Result()
		if err != nil {
			// Redis trouble must not block purchases
			logging.Errorf("Rate limit check failed: %v", err)
			c.Next()
			return
		}
		if !ok {
			c.JSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests,
				"Too many purchase attempts, please wait before retrying"))
			c.Abort()
			return
		}

		c.Next()
	}
}
