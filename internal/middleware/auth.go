package middleware

import (
	"net/http"
	"strings"

	"github.com/App-Start-Dev/innolympics-api/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	authUIDKey  = "auth_uid"
	authNameKey = "auth_name"
)

// RequireAuth validates the bearer credential with the injected verifier
// and stores the caller's identity in the request context. It performs
// no business logic; it only gates the handlers behind it.
func RequireAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Use: Bearer <token>"})
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(authUIDKey, identity.UID)
		c.Set(authNameKey, identity.Name)

		c.Next()
	}
}

// GetAuthUID retrieves the authenticated caller's uid from context.
func GetAuthUID(c *gin.Context) (string, bool) {
	uid, exists := c.Get(authUIDKey)
	if !exists {
		return "", false
	}
	return uid.(string), true
}

// GetAuthName retrieves the authenticated caller's display name from
// context. Falls back to "Support Member" when the identity provider
// supplied no name.
func GetAuthName(c *gin.Context) string {
	name, exists := c.Get(authNameKey)
	if !exists || name.(string) == "" {
		return "Support Member"
	}
	return name.(string)
}

// SetIdentity stores an identity directly in the context. Test helper
// that mirrors what RequireAuth does after verification.
func SetIdentity(c *gin.Context, identity auth.Identity) {
	c.Set(authUIDKey, identity.UID)
	c.Set(authNameKey, identity.Name)
}
