package resp

import (
	"log/slog"
	"net/http"

	"tableorder/services"
	"tableorder/utils"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}

// ServerError logs err and answers with a generic message.
func ServerError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed",
		"requestId", utils.RequestID(c), "method", c.Request.Method, "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "server error"})
}

// Error answers with the status matching the kind of err.
func Error(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		NotFound(c, err.Error())
	case services.KindValidation:
		BadRequest(c, err.Error())
	case services.KindUnauthorized:
		Unauthorized(c, err.Error())
	case services.KindForbidden:
		Forbidden(c, err.Error())
	default:
		ServerError(c, err)
	}
}
