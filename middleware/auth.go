package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/utils"
)

func bearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	return strings.TrimPrefix(token, "Bearer ")
}

// AuthMiddleware rejects requests without a valid token and stores the
// authenticated identity in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access denied. No token provided.",
			})
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid token.",
			})
			return
		}

		c.Set("uid", claims.UserID)
		c.Set("userType", claims.UserType)
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid token is present but
// never rejects the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := utils.ParseToken(tokenString); err == nil {
				c.Set("uid", claims.UserID)
				c.Set("userType", claims.UserType)
			}
		}
		c.Next()
	}
}

// RequireStudent limits a route to student accounts.
func RequireStudent() gin.HandlerFunc {
	return requireType(models.UserTypeStudent, "Access denied. Student privileges required.")
}

// RequireAdmin limits a route to administrator accounts.
func RequireAdmin() gin.HandlerFunc {
	return requireType(models.UserTypeAdmin, "Access denied. Admin privileges required.")
}

func requireType(userType, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userType") != userType {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": message,
			})
			return
		}
		c.Next()
	}
}
