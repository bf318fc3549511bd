package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"contacts_api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// gateRouter wires a single DELETE route guarded by the delete operation,
// with the caller role injected ahead of the guard. storeTouched records
// whether the request ever reached the handler.
func gateRouter(role string, storeTouched *bool) *gin.Engine {
	router := gin.New()
	router.DELETE("/contacts/:id",
		func(c *gin.Context) {
			if role != "" {
				c.Set(AuthRoleKey, role)
			}
			c.Next()
		},
		RequireOperation(OpDelete),
		func(c *gin.Context) {
			*storeTouched = true
			c.Status(http.StatusNoContent)
		},
	)
	return router
}

func TestRequireOperation_AdminAllowedToDelete(t *testing.T) {
	var storeTouched bool
	router := gateRouter(model.RoleAdmin, &storeTouched)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/contacts/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, storeTouched)
}

func TestRequireOperation_UserDeniedBeforeStore(t *testing.T) {
	var storeTouched bool
	router := gateRouter(model.RoleUser, &storeTouched)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/contacts/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, storeTouched, "a denied request must never reach the store")
}

func TestRequireOperation_ModeratorDeniedDelete(t *testing.T) {
	var storeTouched bool
	router := gateRouter(model.RoleModerator, &storeTouched)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/contacts/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, storeTouched)
}

func TestRequireOperation_MissingRoleDenied(t *testing.T) {
	var storeTouched bool
	router := gateRouter("", &storeTouched)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/contacts/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, storeTouched)
}

func TestRoleAllowed(t *testing.T) {
	readRoles := accessPolicy[OpRead]
	assert.True(t, RoleAllowed(model.RoleAdmin, readRoles))
	assert.True(t, RoleAllowed(model.RoleModerator, readRoles))
	assert.True(t, RoleAllowed(model.RoleUser, readRoles))

	writeRoles := accessPolicy[OpCreate]
	assert.True(t, RoleAllowed(model.RoleModerator, writeRoles))
	assert.False(t, RoleAllowed(model.RoleUser, writeRoles))

	assert.False(t, RoleAllowed("superuser", readRoles))
}

func TestAccessPolicy_Table(t *testing.T) {
	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleModerator, model.RoleUser}, accessPolicy[OpRead])
	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleModerator}, accessPolicy[OpCreate])
	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleModerator}, accessPolicy[OpUpdate])
	assert.ElementsMatch(t, []string{model.RoleAdmin}, accessPolicy[OpDelete])
}

func TestValidateAccessPolicy(t *testing.T) {
	assert.NoError(t, ValidateAccessPolicy())

	// An unknown role in the table must be rejected at load time
	accessPolicy["purge"] = []string{"superuser"}
	defer delete(accessPolicy, "purge")
	assert.Error(t, ValidateAccessPolicy())
}
