// Package httpkit provides HTTP utilities including identity extraction.
package httpkit

import (
	"leadflow_backend/platform/identity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetIdentity extracts the caller from a Gin context.
// Returns an anonymous identity if user info is not present.
func GetIdentity(c *gin.Context) identity.Identity {
	userID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return identity.Anonymous()
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return identity.Anonymous()
	}

	var roleList []string
	if roles, ok := c.Get(ContextRolesKey); ok {
		roleList, _ = roles.([]string)
	}

	return identity.New(uid, roleList)
}

// MustGetIdentity extracts the caller from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) identity.Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		abortUnauthorized(c, "unauthorized")
		return nil
	}
	return id
}
