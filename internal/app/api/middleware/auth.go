package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bizadvisor/advisor/internal/platform/identity"
	"github.com/bizadvisor/advisor/pkg/response"
	"github.com/bizadvisor/advisor/pkg/types"
)

const keyUser = "user"

// AuthMiddleware verifies the bearer session token and stores the resulting
// identity on the context. Ledger and admin decisions read this identity,
// never client-supplied fields.
func AuthMiddleware(v *identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token", nil))
			return
		}
		user, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid session token", nil))
			return
		}
		c.Set(keyUser, user)
		c.Next()
	}
}

// RequireAdmin gates admin routes on the verified role claim.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != types.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.ErrorT[any](response.APIResponseCodeForbidden, "admin role required", nil))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the verified identity stored by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *types.UserInfo {
	if v, ok := c.Get(keyUser); ok {
		if u, ok := v.(*types.UserInfo); ok {
			return u
		}
	}
	return nil
}
