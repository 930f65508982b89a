package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"medilexica/internal/pkg/jwtutil"
	"medilexica/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// AuthJWT rejects requests without a valid bearer token.
func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, errMsg := claimsFromHeader(c, secret)
		if claims == nil {
			response.Error(c, 401, response.CodeUnauthorized, errMsg)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// OptionalAuthJWT attaches the user identity when a valid token is present
// and lets the request through anonymously otherwise. The ask path uses it:
// unauthenticated users still get answers, they just lose history saving.
func OptionalAuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := claimsFromHeader(c, secret); claims != nil {
			c.Set(ContextUserIDKey, claims.UserID)
			c.Set(ContextUsernameKey, claims.Username)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, secret string) (*jwtutil.Claims, string) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return nil, "missing authorization header"
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return nil, "invalid authorization scheme"
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	claims, err := jwtutil.ParseToken(secret, token)
	if err != nil {
		return nil, "invalid or expired token"
	}
	return claims, ""
}
