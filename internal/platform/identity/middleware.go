package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
)

// ContextUserID is the Gin context key the middleware stores the verified
// identity id under.
const ContextUserID = "userID"

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// AuthRequired returns a Gin middleware that verifies the bearer token on
// every request before the handler runs. Requests without a token are
// rejected with 401, requests the provider rejects with 403; protected
// handlers never execute without a resolved identity.
func AuthRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail("Access token required"))
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		ident, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, api.Fail("Invalid or expired token"))
			return
		}

		c.Set(ContextUserID, ident.ID)
		c.Next()
	}
}

// BearerToken extracts the raw bearer token from a request, if present.
// Used by logout, where the token is optional.
func BearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
