package auth

import "github.com/gin-gonic/gin"

// identityKey is the gin context key holding the verified Identity.
const identityKey = "auth.identity"

// SetIdentity stores id on the request context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by the auth middleware.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
