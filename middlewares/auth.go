package middlewares

import (
	"strings"

	"tableorder/entity"
	"tableorder/pkg/resp"
	"tableorder/services"
	"tableorder/utils"

	"github.com/gin-gonic/gin"
)

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// AuthMiddleware requires a valid staff token and, when allow is set, a role
// it accepts.
func AuthMiddleware(auth *services.AuthService, allow entity.RolePredicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		staff, err := auth.Authenticate(c.Request.Context(), bearer(c))
		if err != nil {
			resp.Error(c, err)
			c.Abort()
			return
		}
		if allow != nil && !allow(staff.Role) {
			resp.Forbidden(c, "access denied")
			c.Abort()
			return
		}
		c.Set(utils.StaffKey, staff)
		c.Next()
	}
}
