package middleware

import (
	"net/http"
	"strings"

	"contacts_api/internal/service"
	"contacts_api/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// JWTAuthMiddleware validates the bearer access token and resolves the
// current user (cache first, then database) so downstream guards see the
// user's current role, not the one baked into the token.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := parts[1]
		claims, err := jwtUtil.ValidateToken(tokenString, utils.ScopeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := authService.GetCurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not resolve current user"})
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, user.ID)
		c.Set(AuthRoleKey, user.Role)

		c.Next()
	}
}
