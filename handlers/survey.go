package handlers

import (
	"net/http"

	"cokothon/middleware"
	"cokothon/models"
	"cokothon/services/apiclient"
	"cokothon/services/survey"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SurveyHandler serves the member's own survey form.
type SurveyHandler struct {
	API *apiclient.Client
}

func NewSurveyHandler(api *apiclient.Client) *SurveyHandler {
	return &SurveyHandler{API: api}
}

func surveyData(form models.SurveyRequest, existing *models.Survey) gin.H {
	return gin.H{
		"Title":               "설문조사",
		"Form":                form,
		"Survey":              existing,
		"Status":              survey.StatusLabel(existing),
		"RelationshipOptions": models.RelationshipOptions,
		"SupportLevelOptions": models.SupportLevelOptions,
	}
}

// Page pre-fills the form from the member's existing survey.
func (h *SurveyHandler) Page(c *gin.Context) {
	sess := middleware.GetSession(c)
	existing, err := h.API.Surveys.MySurvey(c.Request.Context(), &sess.Credentials)
	if err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		getLogger(c).Error("Failed to load survey", zap.Error(err))
		data := surveyData(models.SurveyRequest{}, nil)
		data["Error"] = apiclient.MessageOr(err, survey.MsgLoadFailed)
		render(c, http.StatusOK, "survey.tmpl", data)
		return
	}
	render(c, http.StatusOK, "survey.tmpl", surveyData(survey.Prefill(existing), existing))
}

// stored looks up the member's saved survey so a re-rendered form keeps its
// status badge. Lookup failures only drop the badge.
func (h *SurveyHandler) stored(c *gin.Context) *models.Survey {
	sess := middleware.GetSession(c)
	existing, err := h.API.Surveys.MySurvey(c.Request.Context(), &sess.Credentials)
	if err != nil {
		getLogger(c).Debug("Survey status unavailable", zap.Error(err))
		return nil
	}
	return existing
}

func (h *SurveyHandler) Submit(c *gin.Context) {
	logger := getLogger(c)
	sess := middleware.GetSession(c)

	var form survey.Form
	if err := c.ShouldBind(&form); err != nil {
		logger.Debug("Invalid survey form", zap.Error(err))
	}
	req, err := survey.Validate(form.Request())
	if err != nil {
		data := surveyData(req, h.stored(c))
		data["Error"] = validationMessage(err)
		render(c, http.StatusOK, "survey.tmpl", data)
		return
	}

	saved, _, err := h.API.Surveys.Submit(c.Request.Context(), &sess.Credentials, req)
	if err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		logger.Error("Failed to save survey", zap.Error(err))
		data := surveyData(req, h.stored(c))
		data["Error"] = apiclient.MessageOr(err, survey.MsgSaveFailed)
		render(c, http.StatusOK, "survey.tmpl", data)
		return
	}

	shown := req
	if saved != nil {
		shown = survey.Prefill(saved)
	}
	logger.Info("Survey saved", zap.Int64("userId", sess.User.ID))
	data := surveyData(shown, saved)
	data["Success"] = survey.MsgSaved
	render(c, http.StatusOK, "survey.tmpl", data)
}
