package handlers

import (
	"net/http"
	"strings"

	"cokothon/middleware"
	"cokothon/models"
	"cokothon/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgCredentialsRequired = "사용자명과 비밀번호를 입력해주세요."
	msgPasswordMismatch    = "비밀번호가 일치하지 않습니다."
	msgRegistered          = "회원가입이 완료되었습니다. 로그인 페이지로 이동합니다."
)

// AuthHandler serves the login, register and logout views.
type AuthHandler struct {
	Sessions session.SessionService
}

func NewAuthHandler(sessions session.SessionService) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

type registerForm struct {
	models.RegisterRequest
	ConfirmPassword string `form:"confirmPassword"`
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.GetSession(c).IsLoggedIn {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	render(c, http.StatusOK, "login.tmpl", gin.H{"Title": "로그인", "Form": models.LoginRequest{}})
}

func (h *AuthHandler) Login(c *gin.Context) {
	logger := getLogger(c)
	sess := middleware.GetSession(c)

	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Debug("Invalid login form", zap.Error(err))
	}
	req.Username = strings.TrimSpace(req.Username)
	form := models.LoginRequest{Username: req.Username}

	if req.Username == "" || req.Password == "" {
		render(c, http.StatusOK, "login.tmpl", gin.H{"Title": "로그인", "Form": form, "Error": msgCredentialsRequired})
		return
	}

	res := h.Sessions.Login(c.Request.Context(), sess, req)
	if !res.Success {
		render(c, http.StatusOK, "login.tmpl", gin.H{"Title": "로그인", "Form": form, "Error": res.Message})
		return
	}
	logger.Info("User logged in", zap.Int64("userId", sess.User.ID))
	redirectWithFlash(c, session.FlashSuccess, res.Message, "/")
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if middleware.GetSession(c).IsLoggedIn {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	render(c, http.StatusOK, "register.tmpl", gin.H{"Title": "회원가입", "Form": models.RegisterRequest{}})
}

// Register checks the password confirmation locally before calling the backend.
func (h *AuthHandler) Register(c *gin.Context) {
	logger := getLogger(c)
	sess := middleware.GetSession(c)

	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Debug("Invalid register form", zap.Error(err))
	}
	req := form.RegisterRequest
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	echo := models.RegisterRequest{Username: req.Username, Name: req.Name, Email: req.Email}

	if req.Password != form.ConfirmPassword {
		render(c, http.StatusOK, "register.tmpl", gin.H{"Title": "회원가입", "Form": echo, "Error": msgPasswordMismatch})
		return
	}

	res := h.Sessions.Register(c.Request.Context(), sess, req)
	if !res.Success {
		render(c, http.StatusOK, "register.tmpl", gin.H{"Title": "회원가입", "Form": echo, "Error": res.Message})
		return
	}
	logger.Info("User registered", zap.String("username", req.Username))
	redirectWithFlash(c, session.FlashSuccess, msgRegistered, "/login")
}

// Logout always ends up logged out on the home page.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.GetSession(c)
	res := h.Sessions.Logout(c.Request.Context(), sess)
	redirectWithFlash(c, session.FlashInfo, res.Message, "/")
}

// SessionState answers GET /api/session for scripts.
func (h *AuthHandler) SessionState(c *gin.Context) {
	sess := middleware.GetSession(c)
	c.JSON(http.StatusOK, gin.H{
		"user":       sess.User,
		"isLoggedIn": sess.IsLoggedIn,
		"isLoading":  sess.IsLoading(),
	})
}
