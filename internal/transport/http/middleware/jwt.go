package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"agriguard/internal/pkg/jwtutil"
	"agriguard/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// AuthJWT guards an endpoint with bearer-token auth. Rejections carry the
// WWW-Authenticate header so clients know to re-login.
func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			unauthorized(c, "Not authenticated")
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			unauthorized(c, "Invalid authentication scheme")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			unauthorized(c, "Could not validate credentials")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Detail(c, 401, detail)
	c.Abort()
}

// UserID extracts the authenticated user id set by AuthJWT.
func UserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}
