package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tawseel/internal/auth"
)

// TokenVerifier resolves a bearer token to the caller's identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's identity for handlers.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			return
		}

		id, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

func authIdentity(c *gin.Context) (string, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return "", false
	}
	return id.UserID, true
}
