package utils

import (
	"tableorder/entity"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	StaffKey     = "staff"
	RequestIDKey = "requestId"
)

// CurrentStaff returns the authenticated staff member, or nil on public routes.
func CurrentStaff(c *gin.Context) *entity.Staff {
	if v, ok := c.Get(StaffKey); ok {
		if s, ok := v.(*entity.Staff); ok {
			return s
		}
	}
	return nil
}

func CurrentStaffID(c *gin.Context) uint {
	if s := CurrentStaff(c); s != nil {
		return s.ID
	}
	return 0
}

func CurrentRole(c *gin.Context) entity.Role {
	if s := CurrentStaff(c); s != nil {
		return s.Role
	}
	return ""
}

func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
