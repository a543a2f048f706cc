package middleware

import (
	"net/http"

	"cokothon/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAdmin lets administrators through. Anonymous visitors are sent to
// the login page, everyone else gets the 403 page.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if !sess.IsLoggedIn {
			RedirectToLogin(c, sess)
			return
		}
		if !sess.IsAdmin() {
			loggerFrom(c).Warn("Non-admin access to admin page", zap.Int64("userId", sess.User.ID), zap.String("path", c.Request.URL.Path))
			utils.RenderError(c, http.StatusForbidden, utils.MsgForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
