// auth.go - Bearer token authentication middleware
//
// Authentication flow:
// 1. Take the token from x-auth-token, else "Authorization: Bearer <token>"
//    (websocket clients that cannot set headers may pass ?token=)
// 2. Verify signature, algorithm and expiry
// 3. Store the user id in the context for handlers
// Requests without a valid token are aborted with 401 before any handler runs.

package middleware

import (
	"net/http"
	"strings"

	"calorie-backend/auth"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/gorilla/websocket"
)

// UserIDKey is the context key holding the authenticated user's id (uint).
const UserIDKey = "user_id"

// Auth returns middleware that only lets requests with a valid token through.
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}
		userID, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}
		c.Set(UserIDKey, userID) // Always a uint; handlers never see raw claims
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if tok := strings.TrimSpace(c.GetHeader("x-auth-token")); tok != "" {
		return tok
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		return c.Query("token")
	}
	return ""
}

// UserID returns the id Auth stored, or 0 when the request is unauthenticated.
func UserID(c *gin.Context) uint {
	return c.GetUint(UserIDKey)
}
