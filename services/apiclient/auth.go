package apiclient

import (
	"context"
	"net/http"

	"cokothon/models"
)

// AuthAPI groups the /auth endpoints.
type AuthAPI struct {
	c *Client
}

// Login authenticates and returns the user and the backend's message. The
// backend session cookie is captured into creds.
func (a *AuthAPI) Login(ctx context.Context, creds *Credentials, req models.LoginRequest) (*models.User, string, error) {
	env, err := do[*models.User](ctx, a.c, creds, call{method: http.MethodPost, route: "/auth/login", path: "/auth/login", body: req})
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.Message, nil
}

func (a *AuthAPI) Register(ctx context.Context, creds *Credentials, req models.RegisterRequest) (*models.User, string, error) {
	env, err := do[*models.User](ctx, a.c, creds, call{method: http.MethodPost, route: "/auth/register", path: "/auth/register", body: req})
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.Message, nil
}

func (a *AuthAPI) Logout(ctx context.Context, creds *Credentials) (string, error) {
	env, err := do[any](ctx, a.c, creds, call{method: http.MethodPost, route: "/auth/logout", path: "/auth/logout"})
	return env.Message, err
}

// Me returns the current user.
func (a *AuthAPI) Me(ctx context.Context, creds *Credentials) (*models.User, error) {
	env, err := do[*models.User](ctx, a.c, creds, call{method: http.MethodGet, route: "/auth/me", path: "/auth/me"})
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Status reports whether creds belong to a logged-in backend session.
func (a *AuthAPI) Status(ctx context.Context, creds *Credentials) (bool, error) {
	env, err := do[bool](ctx, a.c, creds, call{method: http.MethodGet, route: "/auth/status", path: "/auth/status"})
	if err != nil {
		return false, err
	}
	return env.Data, nil
}
