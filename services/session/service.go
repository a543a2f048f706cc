package session

import (
	"context"
	"time"

	"cokothon/models"
	"cokothon/services/apiclient"

	"go.uber.org/zap"
)

const (
	msgLoginFailed    = "로그인에 실패했습니다."
	msgRegisterFailed = "회원가입에 실패했습니다."
	msgLoggedOut      = "로그아웃되었습니다."
)

// Result is what every session operation reports to the views. Failures are
// folded into Message instead of being returned as errors.
type Result struct {
	Success bool
	Message string
}

type SessionService interface {
	CheckAuthStatus(ctx context.Context, s *Session) Result
	Login(ctx context.Context, s *Session, req models.LoginRequest) Result
	Register(ctx context.Context, s *Session, req models.RegisterRequest) Result
	Logout(ctx context.Context, s *Session) Result
}

// DefaultSessionService is the production implementation backed by the REST API.
type DefaultSessionService struct {
	API    *apiclient.Client
	Logger *zap.Logger
	Now    func() time.Time
}

func NewSessionService(api *apiclient.Client, logger *zap.Logger) *DefaultSessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSessionService{API: api, Logger: logger, Now: time.Now}
}

func (svc *DefaultSessionService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

// CheckAuthStatus resolves whether the backend still considers the session
// logged in. Any failure leaves the session logged out.
func (svc *DefaultSessionService) CheckAuthStatus(ctx context.Context, s *Session) Result {
	defer func() {
		s.Checked = true
		s.CheckedAt = svc.now()
	}()

	loggedIn, err := svc.API.Auth.Status(ctx, &s.Credentials)
	if err != nil {
		svc.Logger.Warn("Auth status check failed", zap.String("sessionId", s.ID), zap.Error(err))
		s.ClearAuth()
		return Result{}
	}
	if !loggedIn {
		s.ClearAuth()
		return Result{}
	}

	user, err := svc.API.Auth.Me(ctx, &s.Credentials)
	if err != nil || user == nil {
		svc.Logger.Warn("Fetching current user failed", zap.String("sessionId", s.ID), zap.Error(err))
		s.ClearAuth()
		return Result{}
	}
	s.User = user
	s.IsLoggedIn = true
	return Result{Success: true}
}

func (svc *DefaultSessionService) Login(ctx context.Context, s *Session, req models.LoginRequest) Result {
	user, msg, err := svc.API.Auth.Login(ctx, &s.Credentials, req)
	if err != nil {
		svc.Logger.Info("Login failed", zap.String("username", req.Username), zap.Error(err))
		return Result{Message: apiclient.MessageOr(err, msgLoginFailed)}
	}
	if user == nil {
		if user, err = svc.API.Auth.Me(ctx, &s.Credentials); err != nil || user == nil {
			svc.Logger.Warn("Login succeeded without a user", zap.Error(err))
			return Result{Message: msgLoginFailed}
		}
	}
	s.RenewID()
	s.User = user
	s.IsLoggedIn = true
	s.Checked = true
	s.CheckedAt = svc.now()
	return Result{Success: true, Message: msg}
}

// Register creates an account without logging in.
func (svc *DefaultSessionService) Register(ctx context.Context, s *Session, req models.RegisterRequest) Result {
	_, msg, err := svc.API.Auth.Register(ctx, &s.Credentials, req)
	if err != nil {
		svc.Logger.Info("Registration failed", zap.String("username", req.Username), zap.Error(err))
		return Result{Message: apiclient.MessageOr(err, msgRegisterFailed)}
	}
	return Result{Success: true, Message: msg}
}

// Logout always clears local state, whatever the backend answers.
func (svc *DefaultSessionService) Logout(ctx context.Context, s *Session) Result {
	if _, err := svc.API.Auth.Logout(ctx, &s.Credentials); err != nil {
		svc.Logger.Warn("Backend logout failed", zap.String("sessionId", s.ID), zap.Error(err))
	}
	s.ClearAuth()
	s.Credentials.Clear()
	s.RenewID()
	s.Checked = true
	s.CheckedAt = svc.now()
	return Result{Success: true, Message: msgLoggedOut}
}
