package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cokothon/middleware"
	"cokothon/services/apiclient"
	"cokothon/services/board"
	"cokothon/services/session"
	"cokothon/services/survey"
	"cokothon/utils"

	"github.com/gin-gonic/gin"
)

// render executes a page with the session and pending flashes added to data.
func render(c *gin.Context, status int, name string, data gin.H) {
	sess := middleware.GetSession(c)
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = sess
	data["Flashes"] = sess.PopFlashes()
	c.HTML(status, name, data)
}

// redirectWithFlash queues a one-shot message and redirects with 303 so the
// browser follows with a GET.
func redirectWithFlash(c *gin.Context, kind session.FlashKind, message, location string) {
	sess := middleware.GetSession(c)
	if message != "" {
		sess.AddFlash(kind, message)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// handleUnauthorized sends the browser to the login page when the backend
// answered 401, and reports whether it did.
func handleUnauthorized(c *gin.Context, err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}
	sess := middleware.GetSession(c)
	sess.ClearAuth()
	middleware.RedirectToLogin(c, sess)
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context, message string) {
	if message == "" {
		message = utils.MsgNotFoundPage
	}
	utils.RenderError(c, http.StatusNotFound, message)
}

// validationMessage extracts the user-facing text of a form check failure.
func validationMessage(err error) string {
	var boardErr *board.ValidationError
	if errors.As(err, &boardErr) {
		return boardErr.Message
	}
	var surveyErr *survey.ValidationError
	if errors.As(err, &surveyErr) {
		return surveyErr.Message
	}
	return err.Error()
}
