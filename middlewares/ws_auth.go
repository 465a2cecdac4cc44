package middlewares

import (
	"tableorder/services"
	"tableorder/utils"

	"github.com/gin-gonic/gin"
)

// OptionalAuth identifies staff on routes that are also open to the public.
// The token comes from the "token" query parameter (browsers cannot set
// headers on websocket upgrades) or the Authorization header. A missing or
// bad token just leaves the request anonymous.
func OptionalAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearer(c)
		}
		if token != "" {
			if staff, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(utils.StaffKey, staff)
			}
		}
		c.Next()
	}
}
