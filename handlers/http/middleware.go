package httpHandler

import (
	"net/http"
	"strings"
	"telemetry-server/usecases"

	"github.com/gin-gonic/gin"
)

// ownerKey is the gin context key the middleware stores the resolved owner
// ID under.
const ownerKey = "owner_id"

// BearerToken extracts the credential from an Authorization: Bearer header.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// RequireAuth resolves the bearer token to an owner identity and aborts
// with 401 when it is missing or unknown.
func RequireAuth(auth *usecases.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := BearerToken(c.GetHeader("Authorization"))
		ownerID, err := auth.Authenticate(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner set by RequireAuth.
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}
