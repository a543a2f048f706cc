package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cokothon/models"
)

// SurveyAPI groups the /family-survey endpoints. The admin calls are
// authorised by the backend.
type SurveyAPI struct {
	c *Client
}

// MySurvey returns the caller's survey, or nil when none exists yet.
func (s *SurveyAPI) MySurvey(ctx context.Context, creds *Credentials) (*models.Survey, error) {
	env, err := do[*models.Survey](ctx, s.c, creds, call{method: http.MethodGet, route: "/family-survey/my-survey", path: "/family-survey/my-survey"})
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Submit creates or updates the caller's survey.
func (s *SurveyAPI) Submit(ctx context.Context, creds *Credentials, req models.SurveyRequest) (*models.Survey, string, error) {
	env, err := do[*models.Survey](ctx, s.c, creds, call{method: http.MethodPost, route: "/family-survey/submit", path: "/family-survey/submit", body: req})
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.Message, nil
}

func (s *SurveyAPI) CompletionStatus(ctx context.Context, creds *Credentials) (bool, error) {
	env, err := do[bool](ctx, s.c, creds, call{method: http.MethodGet, route: "/family-survey/completion-status", path: "/family-survey/completion-status"})
	if err != nil {
		return false, err
	}
	return env.Data, nil
}

func (s *SurveyAPI) list(ctx context.Context, creds *Credentials, route, path string) ([]models.Survey, error) {
	env, err := do[[]models.Survey](ctx, s.c, creds, call{method: http.MethodGet, route: route, path: path})
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (s *SurveyAPI) Completed(ctx context.Context, creds *Credentials) ([]models.Survey, error) {
	return s.list(ctx, creds, "/family-survey/admin/completed", "/family-survey/admin/completed")
}

func (s *SurveyAPI) Incomplete(ctx context.Context, creds *Credentials) ([]models.Survey, error) {
	return s.list(ctx, creds, "/family-survey/admin/incomplete", "/family-survey/admin/incomplete")
}

func (s *SurveyAPI) MeetingParticipants(ctx context.Context, creds *Credentials) ([]models.Survey, error) {
	return s.list(ctx, creds, "/family-survey/admin/meeting-participants", "/family-survey/admin/meeting-participants")
}

func (s *SurveyAPI) BySupportLevel(ctx context.Context, creds *Credentials, level models.SupportLevel) ([]models.Survey, error) {
	return s.list(ctx, creds, "/family-survey/admin/psychological-support/{supportLevel}",
		"/family-survey/admin/psychological-support/"+url.PathEscape(string(level)))
}

func (s *SurveyAPI) ByRelationship(ctx context.Context, creds *Credentials, rel models.Relationship) ([]models.Survey, error) {
	return s.list(ctx, creds, "/family-survey/admin/by-relationship/{relationship}",
		"/family-survey/admin/by-relationship/"+url.PathEscape(string(rel)))
}

func (s *SurveyAPI) Statistics(ctx context.Context, creds *Credentials) (*models.SurveyStatistics, error) {
	env, err := do[*models.SurveyStatistics](ctx, s.c, creds, call{method: http.MethodGet, route: "/family-survey/admin/statistics", path: "/family-survey/admin/statistics"})
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return &models.SurveyStatistics{}, nil
	}
	return env.Data, nil
}

// UserSurvey returns the survey of userID, or nil when none exists.
func (s *SurveyAPI) UserSurvey(ctx context.Context, creds *Credentials, userID int64) (*models.Survey, error) {
	env, err := do[*models.Survey](ctx, s.c, creds, call{method: http.MethodGet, route: "/family-survey/admin/user/{userId}", path: fmt.Sprintf("/family-survey/admin/user/%d", userID)})
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (s *SurveyAPI) Delete(ctx context.Context, creds *Credentials, surveyID int64) (string, error) {
	env, err := do[any](ctx, s.c, creds, call{method: http.MethodDelete, route: "/family-survey/admin/{surveyId}", path: fmt.Sprintf("/family-survey/admin/%d", surveyID)})
	return env.Message, err
}
