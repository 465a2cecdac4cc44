package controllers

import (
	"strconv"

	"tableorder/pkg/resp"

	"github.com/gin-gonic/gin"
)

// uintParam reads a positive numeric path parameter, answering 400 when it is not one.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		resp.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func tableNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("tableNumber"))
	if err != nil || n <= 0 {
		resp.BadRequest(c, "invalid table number")
		return 0, false
	}
	return n, true
}
