package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"cokothon/models"
)

// DefaultBoardSort is the sort order requested for the full board list.
const DefaultBoardSort = "createdAt,desc"

// BoardAPI groups the /boards endpoints.
type BoardAPI struct {
	c *Client
}

type BoardPage = models.Page[models.Board]

func (b *BoardAPI) List(ctx context.Context, creds *Credentials, page, size int, sort string) (*BoardPage, error) {
	q := pageQuery(page, size)
	if sort != "" {
		q.Set("sort", sort)
	}
	env, err := do[BoardPage](ctx, b.c, creds, call{method: http.MethodGet, route: "/boards", path: "/boards", query: q})
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (b *BoardAPI) ListByCategory(ctx context.Context, creds *Credentials, categoryID int64, page, size int) (*BoardPage, error) {
	env, err := do[BoardPage](ctx, b.c, creds, call{
		method: http.MethodGet,
		route:  "/boards/category/{categoryId}",
		path:   fmt.Sprintf("/boards/category/%d", categoryID),
		query:  pageQuery(page, size),
	})
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (b *BoardAPI) Get(ctx context.Context, creds *Credentials, id int64) (*models.Board, error) {
	env, err := do[*models.Board](ctx, b.c, creds, call{method: http.MethodGet, route: "/boards/{id}", path: fmt.Sprintf("/boards/%d", id)})
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &APIError{Status: http.StatusNotFound}
	}
	return env.Data, nil
}

func (b *BoardAPI) Create(ctx context.Context, creds *Credentials, req models.BoardRequest) (*models.Board, string, error) {
	env, err := do[*models.Board](ctx, b.c, creds, call{method: http.MethodPost, route: "/boards", path: "/boards", body: req})
	if err != nil {
		return nil, "", err
	}
	if env.Data == nil {
		return nil, env.Message, &APIError{Status: http.StatusOK, Message: env.Message, Err: fmt.Errorf("create returned no board")}
	}
	return env.Data, env.Message, nil
}

func (b *BoardAPI) Update(ctx context.Context, creds *Credentials, id int64, req models.BoardRequest) (*models.Board, string, error) {
	env, err := do[*models.Board](ctx, b.c, creds, call{method: http.MethodPut, route: "/boards/{id}", path: fmt.Sprintf("/boards/%d", id), body: req})
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.Message, nil
}

func (b *BoardAPI) Delete(ctx context.Context, creds *Credentials, id int64) (string, error) {
	env, err := do[any](ctx, b.c, creds, call{method: http.MethodDelete, route: "/boards/{id}", path: fmt.Sprintf("/boards/%d", id)})
	return env.Message, err
}

func (b *BoardAPI) Search(ctx context.Context, creds *Credentials, keyword string, page, size int) (*BoardPage, error) {
	q := pageQuery(page, size)
	q.Set("keyword", keyword)
	env, err := do[BoardPage](ctx, b.c, creds, call{method: http.MethodGet, route: "/boards/search", path: "/boards/search", query: q})
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}
