package handlers

import (
	"net/http"

	"cokothon/middleware"
	"cokothon/services/apiclient"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HomeHandler renders the landing page. Logged-in members also see whether
// their family survey is finished.
type HomeHandler struct {
	API *apiclient.Client
}

func NewHomeHandler(api *apiclient.Client) *HomeHandler {
	return &HomeHandler{API: api}
}

func (h *HomeHandler) Home(c *gin.Context) {
	data := gin.H{}
	sess := middleware.GetSession(c)
	if sess.IsLoggedIn {
		done, err := h.API.Surveys.CompletionStatus(c.Request.Context(), &sess.Credentials)
		if err != nil {
			getLogger(c).Warn("Failed to load survey completion", zap.Error(err))
		} else {
			data["SurveyKnown"] = true
			data["SurveyCompleted"] = done
		}
	}
	render(c, http.StatusOK, "home.tmpl", data)
}

func NotFoundHandler(c *gin.Context) {
	notFound(c, "")
}
