package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler catches panics and answers with a generic error page, or a
// structured JSON error for /api routes.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				if wantsJSON(c) {
					c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
						Message: "Internal Server Error",
						Details: "An unexpected error occurred. Please try again later.",
					})
					return
				}
				RenderError(c, http.StatusInternalServerError, MsgInternalError)
				c.Abort()
			}
		}()
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// RenderError answers with the error page, or JSON for API callers. The
// current session, when loaded, is passed on so the navbar still renders.
func RenderError(c *gin.Context, status int, message string) {
	if wantsJSON(c) {
		c.JSON(status, ErrorResponse{Message: message})
		return
	}
	sess, _ := c.Get(SessionContextKey)
	c.HTML(status, "error.tmpl", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
		"Session": sess,
	})
}
