package middleware

import (
	"fmt"
	"net/http"

	"contacts_api/internal/model"

	"github.com/gin-gonic/gin"
)

// Operation is a category of contact operation with its own permitted roles
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// accessPolicy maps each operation to the set of roles allowed to perform
// it. It is static configuration; all role logic lives here rather than at
// call sites.
var accessPolicy = map[Operation][]string{
	OpRead:   {model.RoleAdmin, model.RoleModerator, model.RoleUser},
	OpCreate: {model.RoleAdmin, model.RoleModerator},
	OpUpdate: {model.RoleAdmin, model.RoleModerator},
	OpDelete: {model.RoleAdmin},
}

// ValidateAccessPolicy rejects a policy that names an unknown role. A role
// outside the enumeration is a programming error and must fail at startup,
// never turn into a runtime deny.
func ValidateAccessPolicy() error {
	for op, roles := range accessPolicy {
		if len(roles) == 0 {
			return fmt.Errorf("access policy for operation %q allows no roles", op)
		}
		for _, role := range roles {
			if !model.ValidRole(role) {
				return fmt.Errorf("access policy for operation %q names unknown role %q", op, role)
			}
		}
	}
	return nil
}

// RoleAllowed reports whether role is in the allowed set. The gate itself is
// stateless and transport-agnostic.
func RoleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// RequireOperation is the single generic guard: it checks the caller's role
// against the access policy entry for op, rejecting with 403 before the
// request can reach the store.
func RequireOperation(op Operation) gin.HandlerFunc {
	allowed := accessPolicy[op]
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in context, ensure JWT middleware runs first"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid role type in context"})
			return
		}

		if !RoleAllowed(userRole, allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}
