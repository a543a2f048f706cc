package middleware

import (
	"net/http"

	"cokothon/services/session"
	"cokothon/utils"

	"github.com/gin-gonic/gin"
)

// LoginPath is where anonymous visitors of protected pages are sent.
const LoginPath = "/login"

// RequireLogin redirects anonymous visitors to the login page with a flash.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if !sess.IsLoggedIn {
			RedirectToLogin(c, sess)
			return
		}
		c.Next()
	}
}

// RedirectToLogin flashes the login notice and aborts with a redirect.
func RedirectToLogin(c *gin.Context, sess *session.Session) {
	sess.AddFlash(session.FlashError, utils.MsgLoginRequired)
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
}
