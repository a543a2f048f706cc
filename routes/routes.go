package routes

import (
	"net/http"
	"time"

	"cokothon/handlers"
	"cokothon/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries the middleware shared by the route groups.
type Options struct {
	Session        gin.HandlerFunc
	AuthLimiter    gin.HandlerFunc
	AllowedOrigins []string
}

// RegisterAuthRoutes registers the login, register and logout views.
func RegisterAuthRoutes(web *gin.RouterGroup, hb *handlers.HandlerBundle, authLimiter gin.HandlerFunc) {
	web.GET("/login", hb.LoginPage)
	web.POST("/login", authLimiter, hb.Login)
	web.GET("/register", hb.RegisterPage)
	web.POST("/register", authLimiter, hb.Register)
	web.POST("/logout", hb.Logout)
}

// RegisterBoardRoutes registers the board views. Reading is public, writing
// requires a login.
func RegisterBoardRoutes(web *gin.RouterGroup, hb *handlers.HandlerBundle) {
	boards := web.Group("/boards")
	{
		boards.GET("", hb.BoardList)
		boards.GET("/category/:categoryId", hb.BoardByCategory)
		boards.GET("/search", hb.BoardSearch)
		boards.GET("/:id", hb.BoardDetail)

		protected := boards.Group("")
		protected.Use(middleware.RequireLogin())
		protected.GET("/create", hb.BoardCreatePage)
		protected.POST("/create", hb.BoardCreate)
		protected.GET("/:id/edit", hb.BoardEditPage)
		protected.POST("/:id/edit", hb.BoardUpdate)
		protected.POST("/:id/delete", hb.BoardDelete)
	}
}

// RegisterSurveyRoutes registers the member survey form.
func RegisterSurveyRoutes(web *gin.RouterGroup, hb *handlers.HandlerBundle) {
	survey := web.Group("/survey", middleware.RequireLogin())
	{
		survey.GET("", hb.SurveyPage)
		survey.POST("", hb.SurveySubmit)
	}
}

// RegisterAdminRoutes registers the survey management pages.
func RegisterAdminRoutes(web *gin.RouterGroup, hb *handlers.HandlerBundle) {
	admin := web.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/surveys", hb.AdminSurveys)
		admin.GET("/surveys/user/:userId", hb.AdminUserSurvey)
		admin.POST("/surveys/:id/delete", hb.AdminDeleteSurvey)
		admin.GET("/statistics", hb.AdminStatistics)
	}
}

// RegisterAPIRoutes registers the JSON endpoints used by scripts.
func RegisterAPIRoutes(web *gin.RouterGroup, hb *handlers.HandlerBundle, origins []string) {
	api := web.Group("/api")
	if len(origins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	{
		api.GET("/session", hb.SessionState)
		api.OPTIONS("/session", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
}

// RegisterHealthRoute registers a health-check endpoint outside the session scope.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes wires all route groups. Everything except /health runs
// inside the session middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	RegisterHealthRoute(r, hb)

	web := r.Group("")
	if opts.Session != nil {
		web.Use(opts.Session)
	}
	authLimiter := opts.AuthLimiter
	if authLimiter == nil {
		authLimiter = func(c *gin.Context) { c.Next() }
	}

	web.GET("/", hb.Home)
	RegisterAuthRoutes(web, hb, authLimiter)
	RegisterBoardRoutes(web, hb)
	RegisterSurveyRoutes(web, hb)
	RegisterAdminRoutes(web, hb)
	RegisterAPIRoutes(web, hb, opts.AllowedOrigins)

	notFound := []gin.HandlerFunc{handlers.NotFoundHandler}
	if opts.Session != nil {
		notFound = append([]gin.HandlerFunc{opts.Session}, notFound...)
	}
	r.NoRoute(notFound...)
}
