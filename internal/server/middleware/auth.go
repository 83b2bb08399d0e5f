package middleware

import (
	"net/http"
	"strings"

	"kaambuddy/internal/pkg/jwt"
	"kaambuddy/internal/server/repository"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID   = "user_id"
	CtxUserType = "user_type"
)

// JWTAuth validates the bearer token and loads the account behind it.
// Deactivated accounts and stale tokens both answer 401, which tells the
// SDK to purge its credential store and force a re-login.
func JWTAuth(jwtService *jwt.Service, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			unauthorized(c, "Empty token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			unauthorized(c, "Account is no longer active")
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserType, string(user.UserType))
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
