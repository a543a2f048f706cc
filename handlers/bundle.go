package handlers

import (
	"cokothon/services/apiclient"
	"cokothon/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Home   gin.HandlerFunc
	Health gin.HandlerFunc

	// Auth endpoints
	LoginPage    gin.HandlerFunc
	Login        gin.HandlerFunc
	RegisterPage gin.HandlerFunc
	Register     gin.HandlerFunc
	Logout       gin.HandlerFunc
	SessionState gin.HandlerFunc

	// Board endpoints
	BoardList       gin.HandlerFunc
	BoardByCategory gin.HandlerFunc
	BoardSearch     gin.HandlerFunc
	BoardDetail     gin.HandlerFunc
	BoardCreatePage gin.HandlerFunc
	BoardCreate     gin.HandlerFunc
	BoardEditPage   gin.HandlerFunc
	BoardUpdate     gin.HandlerFunc
	BoardDelete     gin.HandlerFunc

	// Survey endpoints
	SurveyPage   gin.HandlerFunc
	SurveySubmit gin.HandlerFunc

	// Admin endpoints
	AdminSurveys      gin.HandlerFunc
	AdminUserSurvey   gin.HandlerFunc
	AdminDeleteSurvey gin.HandlerFunc
	AdminStatistics   gin.HandlerFunc
}

// NewHandlerBundle wires every handler to the backend client and session service.
func NewHandlerBundle(api *apiclient.Client, sessions session.SessionService) *HandlerBundle {
	home := NewHomeHandler(api)
	auth := NewAuthHandler(sessions)
	boards := NewBoardHandler(api)
	surveys := NewSurveyHandler(api)
	admin := NewAdminHandler(api)

	return &HandlerBundle{
		Home:   home.Home,
		Health: HealthHandler,

		LoginPage:    auth.LoginPage,
		Login:        auth.Login,
		RegisterPage: auth.RegisterPage,
		Register:     auth.Register,
		Logout:       auth.Logout,
		SessionState: auth.SessionState,

		BoardList:       boards.List,
		BoardByCategory: boards.ListByCategory,
		BoardSearch:     boards.Search,
		BoardDetail:     boards.Detail,
		BoardCreatePage: boards.CreatePage,
		BoardCreate:     boards.Create,
		BoardEditPage:   boards.EditPage,
		BoardUpdate:     boards.Update,
		BoardDelete:     boards.Delete,

		SurveyPage:   surveys.Page,
		SurveySubmit: surveys.Submit,

		AdminSurveys:      admin.Surveys,
		AdminUserSurvey:   admin.UserSurvey,
		AdminDeleteSurvey: admin.DeleteSurvey,
		AdminStatistics:   admin.Statistics,
	}
}
