package handlers

import (
	"context"
	"net/http"

	"cokothon/middleware"
	"cokothon/models"
	"cokothon/services/apiclient"
	"cokothon/services/session"
	"cokothon/services/survey"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgStatisticsFailed = "통계를 불러오는 중 오류가 발생했습니다."

// AdminHandler serves the survey management pages. Access is checked by
// middleware.RequireAdmin and again by the backend.
type AdminHandler struct {
	API *apiclient.Client
}

func NewAdminHandler(api *apiclient.Client) *AdminHandler {
	return &AdminHandler{API: api}
}

func (h *AdminHandler) listSurveys(ctx context.Context, creds *apiclient.Credentials, q survey.AdminQuery) ([]models.Survey, error) {
	switch q.Filter {
	case survey.FilterSupport:
		return h.API.Surveys.BySupportLevel(ctx, creds, q.SupportLevel)
	case survey.FilterRelationship:
		return h.API.Surveys.ByRelationship(ctx, creds, q.Relationship)
	case survey.FilterIncomplete:
		return h.API.Surveys.Incomplete(ctx, creds)
	case survey.FilterMeeting:
		return h.API.Surveys.MeetingParticipants(ctx, creds)
	default:
		return h.API.Surveys.Completed(ctx, creds)
	}
}

func (h *AdminHandler) Surveys(c *gin.Context) {
	sess := middleware.GetSession(c)
	q := survey.ParseAdminQuery(c.Query("filter"), c.Query("supportLevel"), c.Query("relationship"))

	data := gin.H{
		"Title":               "설문조사 관리",
		"Query":               q,
		"RelationshipOptions": models.RelationshipOptions,
		"SupportLevelOptions": models.SupportLevelOptions,
	}
	surveys, err := h.listSurveys(c.Request.Context(), &sess.Credentials, q)
	if err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		getLogger(c).Error("Failed to list surveys", zap.String("filter", string(q.Filter)), zap.Error(err))
		data["Error"] = apiclient.MessageOr(err, survey.MsgLoadFailed)
	}
	data["Surveys"] = surveys
	render(c, http.StatusOK, "admin_surveys.tmpl", data)
}

func (h *AdminHandler) UserSurvey(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		notFound(c, "")
		return
	}
	sess := middleware.GetSession(c)
	data := gin.H{"Title": "사용자 설문조사"}

	s, err := h.API.Surveys.UserSurvey(c.Request.Context(), &sess.Credentials, userID)
	if err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		getLogger(c).Error("Failed to load user survey", zap.Int64("userId", userID), zap.Error(err))
		data["Error"] = apiclient.MessageOr(err, survey.MsgLoadFailed)
	}
	data["Survey"] = s
	render(c, http.StatusOK, "admin_survey_detail.tmpl", data)
}

func (h *AdminHandler) DeleteSurvey(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "")
		return
	}
	logger := getLogger(c)
	sess := middleware.GetSession(c)

	if _, err := h.API.Surveys.Delete(c.Request.Context(), &sess.Credentials, id); err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		logger.Error("Failed to delete survey", zap.Int64("surveyId", id), zap.Error(err))
		redirectWithFlash(c, session.FlashError, apiclient.MessageOr(err, survey.MsgDeleteFailed), "/admin/surveys")
		return
	}
	logger.Info("Survey deleted", zap.Int64("surveyId", id), zap.Int64("adminId", sess.User.ID))
	redirectWithFlash(c, session.FlashSuccess, survey.MsgDeleted, "/admin/surveys")
}

func (h *AdminHandler) Statistics(c *gin.Context) {
	sess := middleware.GetSession(c)
	data := gin.H{
		"Title":               "설문조사 통계",
		"RelationshipOptions": models.RelationshipOptions,
	}
	stats, err := h.API.Surveys.Statistics(c.Request.Context(), &sess.Credentials)
	if err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		getLogger(c).Error("Failed to load statistics", zap.Error(err))
		data["Error"] = apiclient.MessageOr(err, msgStatisticsFailed)
	}
	data["Stats"] = stats
	render(c, http.StatusOK, "admin_statistics.tmpl", data)
}
