package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"cokothon/handlers"
	"cokothon/middleware"
	"cokothon/routes"
	"cokothon/services/apiclient"
	"cokothon/services/session"
	"cokothon/templates"
	"cokothon/utils"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeBackend is a scripted REST backend that records every call.
type fakeBackend struct {
	mu    sync.Mutex
	calls []recorded
	mux   *http.ServeMux
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	b.mu.Unlock()
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	b.mux.ServeHTTP(w, r)
}

func (b *fakeBackend) callsTo(method, path string) []recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []recorded
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func envelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "message": message, "data": data})
}

func loggedIn(r *http.Request) bool {
	ck, err := r.Cookie("JSESSIONID")
	return err == nil && ck.Value != ""
}

// newBackend answers the auth endpoints the way the real backend does:
// logging in hands out JSESSIONID, status/me depend on it.
func newBackend(user map[string]any) *fakeBackend {
	b := &fakeBackend{mux: http.NewServeMux()}
	b.mux.HandleFunc("/api/auth/status", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", loggedIn(r))
	})
	b.mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !loggedIn(r) {
			envelope(w, http.StatusBadRequest, false, "로그인이 필요합니다.", nil)
			return
		}
		envelope(w, http.StatusOK, true, "", user)
	})
	b.mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "password123" {
			envelope(w, http.StatusBadRequest, false, "비밀번호가 일치하지 않습니다.", nil)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "backend-session", Path: "/"})
		envelope(w, http.StatusOK, true, "로그인이 완료되었습니다.", user)
	})
	b.mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", []map[string]any{
			{"id": 1, "name": "자유게시판", "description": "자유롭게 이야기하는 곳", "boardCount": 35},
			{"id": 2, "name": "질문게시판", "boardCount": 3},
		})
	})
	return b
}

type harness struct {
	t       *testing.T
	router  *gin.Engine
	backend *fakeBackend
	redis   *miniredis.Miniredis
	cookie  *http.Cookie
}

func newHarness(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	api := apiclient.New(srv.URL+"/api", 5*time.Second, nil,
		apiclient.WithCategoryCache(apiclient.NewRedisCategoryCache(rc, utils.CategoryCacheKey, time.Minute)),
	)
	sessions := session.NewSessionService(api, nil)
	store := session.NewRedisStore(rc, utils.NewSealer("test-secret"), time.Hour)

	router := gin.New()
	router.SetHTMLTemplate(templates.MustLoad())
	router.Use(utils.ErrorHandler())
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(api, sessions), routes.Options{
		Session: middleware.SessionMiddleware(store, sessions, utils.NewSessionSigner("test-secret"), middleware.SessionOptions{
			CookieName:      "sid",
			TTL:             time.Hour,
			RecheckInterval: time.Hour,
		}),
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &harness{t: t, router: router, backend: backend, redis: mr}
}

func (h *harness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	h.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "sid" {
			h.cookie = ck
		}
	}
	return w
}

func (h *harness) login() {
	h.t.Helper()
	w := h.do(http.MethodPost, "/login", url.Values{"username": {"kimdev"}, "password": {"password123"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		h.t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
}

type sessionState struct {
	User       map[string]any `json:"user"`
	IsLoggedIn bool           `json:"isLoggedIn"`
	IsLoading  bool           `json:"isLoading"`
}

func (h *harness) state() sessionState {
	h.t.Helper()
	w := h.do(http.MethodGet, "/api/session", nil)
	if w.Code != http.StatusOK {
		h.t.Fatalf("session endpoint: %d", w.Code)
	}
	var s sessionState
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		h.t.Fatalf("decode session: %v", err)
	}
	return s
}

var member = map[string]any{"id": 7, "username": "kimdev", "name": "김개발", "isAdmin": false}

func TestLoginReflectsReturnedUser(t *testing.T) {
	h := newHarness(t, newBackend(member))

	if s := h.state(); s.IsLoggedIn || s.IsLoading {
		t.Fatalf("expected resolved anonymous session, got %#v", s)
	}
	h.login()

	s := h.state()
	if !s.IsLoggedIn || s.User["name"] != "김개발" {
		t.Fatalf("session does not reflect login: %#v", s)
	}
	home := h.do(http.MethodGet, "/", nil)
	if !strings.Contains(home.Body.String(), "김개발") || !strings.Contains(home.Body.String(), "로그인이 완료되었습니다.") {
		t.Fatal("navbar or flash missing after login")
	}
}

func TestLoginRenewsSessionID(t *testing.T) {
	h := newHarness(t, newBackend(member))
	signer := utils.NewSessionSigner("test-secret")

	h.do(http.MethodGet, "/", nil)
	anonymous := h.cookie
	before, err := signer.ExtractSessionID(anonymous.Value)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	h.login()
	after, err := signer.ExtractSessionID(h.cookie.Value)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if before == after {
		t.Fatalf("session id %q survived login", before)
	}
	if h.redis.Exists(utils.SessionPrefix + before) {
		t.Fatal("pre-login session still stored")
	}

	// Replaying the cookie handed out before login must not be logged in.
	h.cookie = anonymous
	if s := h.state(); s.IsLoggedIn {
		t.Fatal("pre-login cookie inherited the login")
	}
}

func TestLoginFailureShowsBackendMessage(t *testing.T) {
	h := newHarness(t, newBackend(member))
	w := h.do(http.MethodPost, "/login", url.Values{"username": {"kimdev"}, "password": {"wrong"}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "비밀번호가 일치하지 않습니다.") {
		t.Fatalf("expected login page with error, got %d", w.Code)
	}
	if h.state().IsLoggedIn {
		t.Fatal("failed login must not log in")
	}
}

func TestRegisterMismatchMakesNoBackendCall(t *testing.T) {
	backend := newBackend(member)
	h := newHarness(t, backend)

	w := h.do(http.MethodPost, "/register", url.Values{
		"username": {"newbie"}, "name": {"새회원"}, "email": {"a@b.c"},
		"password": {"secret1"}, "confirmPassword": {"secret2"},
	})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "비밀번호가 일치하지 않습니다.") {
		t.Fatalf("expected mismatch error, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `value="newbie"`) {
		t.Fatal("entered values not kept")
	}
	if n := len(backend.callsTo(http.MethodPost, "/api/auth/register")); n != 0 {
		t.Fatalf("expected no register call, got %d", n)
	}
}

func TestRegisterSuccessRedirectsToLogin(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := req["confirmPassword"]; ok {
			t.Error("confirmPassword must not be sent")
		}
		envelope(w, http.StatusOK, true, "회원가입이 완료되었습니다.", map[string]any{"id": 8})
	})
	h := newHarness(t, backend)

	w := h.do(http.MethodPost, "/register", url.Values{
		"username": {"newbie"}, "name": {"새회원"}, "password": {"pw"}, "confirmPassword": {"pw"},
	})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d", w.Code)
	}
	page := h.do(http.MethodGet, "/login", nil)
	if !strings.Contains(page.Body.String(), "회원가입이 완료되었습니다. 로그인 페이지로 이동합니다.") {
		t.Fatal("missing registration flash")
	}
}

func TestLogoutAlwaysLogsOut(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h := newHarness(t, backend)
	h.login()

	w := h.do(http.MethodPost, "/logout", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d", w.Code)
	}
	if s := h.state(); s.IsLoggedIn || s.User != nil {
		t.Fatalf("expected logged out, got %#v", s)
	}
}

func boardPage(number, totalPages int, total int64, n int) map[string]any {
	content := make([]map[string]any, n)
	for i := range content {
		content[i] = map[string]any{
			"id": 1000 + i, "title": "게시글", "author": "김개발", "categoryName": "자유게시판",
			"viewCount": 3, "createdAt": "2024-01-05T10:20:30.123",
		}
	}
	return map[string]any{"content": content, "number": number, "totalPages": totalPages, "totalElements": total, "size": 10}
}

func TestBoardListRequestsPageAndNumbersRows(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/boards", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", boardPage(2, 4, 35, 10))
	})
	h := newHarness(t, backend)

	w := h.do(http.MethodGet, "/boards?page=2&size=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	calls := backend.callsTo(http.MethodGet, "/api/boards")
	if len(calls) != 1 {
		t.Fatalf("expected one list call, got %d", len(calls))
	}
	q, _ := url.ParseQuery(calls[0].Query)
	if q.Get("page") != "2" || q.Get("size") != "10" || q.Get("sort") != "createdAt,desc" {
		t.Fatalf("unexpected query %q", calls[0].Query)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<td class="row-number">15</td>`) || !strings.Contains(body, `<td class="row-number">6</td>`) {
		t.Fatal("rows not numbered from totalElements - 20")
	}
	if strings.Contains(body, `<td class="row-number">16</td>`) {
		t.Fatal("row numbering starts too high")
	}
	if !strings.Contains(body, "2024년 1월 5일") {
		t.Fatal("dates not rendered")
	}
	if strings.Contains(body, `href="/boards/create" class="btn btn-primary"`) {
		t.Fatal("write button must be hidden for anonymous visitors")
	}
}

func TestBoardListFallsBackOnBadQuery(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/boards/category/1", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", boardPage(0, 0, 0, 0))
	})
	h := newHarness(t, backend)

	w := h.do(http.MethodGet, "/boards/category/1?page=-3&size=abc", nil)
	calls := backend.callsTo(http.MethodGet, "/api/boards/category/1")
	if len(calls) != 1 || calls[0].Query != "page=0&size=10" {
		t.Fatalf("unexpected calls %#v", calls)
	}
	body := w.Body.String()
	if !strings.Contains(body, "게시글이 없습니다.") || !strings.Contains(body, "자유롭게 이야기하는 곳") {
		t.Fatal("expected empty state with category description")
	}
}

func TestBoardListBackendDownStillRenders(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/boards", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := newHarness(t, backend)

	w := h.do(http.MethodGet, "/boards", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "게시글을 불러오는 중 오류가 발생했습니다.") {
		t.Fatalf("expected page with error message, got %d", w.Code)
	}
}

func TestSearchRequiresKeyword(t *testing.T) {
	backend := newBackend(member)
	h := newHarness(t, backend)

	w := h.do(http.MethodGet, "/boards/search?keyword=+", nil)
	if !strings.Contains(w.Body.String(), "검색어를 입력해주세요.") {
		t.Fatal("missing keyword message")
	}
	if len(backend.callsTo(http.MethodGet, "/api/boards/search")) != 0 {
		t.Fatal("empty keyword must not reach the backend")
	}
}

func TestBoardCreateRequiresLogin(t *testing.T) {
	h := newHarness(t, newBackend(member))
	w := h.do(http.MethodGet, "/boards/create", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d", w.Code)
	}
}

func TestBoardCreateValidationMakesNoCall(t *testing.T) {
	backend := newBackend(member)
	h := newHarness(t, backend)
	h.login()

	w := h.do(http.MethodPost, "/boards/create", url.Values{"title": {"  "}, "content": {"본문"}, "categoryId": {"1"}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "제목을 입력해주세요.") {
		t.Fatalf("expected validation error, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "본문") {
		t.Fatal("entered content not kept")
	}
	if len(backend.callsTo(http.MethodPost, "/api/boards")) != 0 {
		t.Fatal("invalid form must not reach the backend")
	}
}

func TestBoardCreateUnauthorizedRedirectsToLogin(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/boards", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusUnauthorized, false, "로그인이 필요합니다.", nil)
	})
	h := newHarness(t, backend)
	h.login()

	w := h.do(http.MethodPost, "/boards/create", url.Values{"title": {"제목"}, "content": {"본문"}, "categoryId": {"1"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %s", w.Code, w.Header().Get("Location"))
	}
	page := h.do(http.MethodGet, "/login", nil)
	if !strings.Contains(page.Body.String(), "로그인이 필요합니다.") {
		t.Fatal("missing login flash")
	}
}

func TestBoardCreateSuccessRedirectsToPost(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/boards", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["title"] != "제목" || req["categoryId"] != float64(2) {
			t.Errorf("unexpected create body %#v", req)
		}
		envelope(w, http.StatusOK, true, "게시글이 작성되었습니다.", map[string]any{"id": 42, "title": "제목"})
	})
	h := newHarness(t, backend)
	h.login()

	w := h.do(http.MethodPost, "/boards/create", url.Values{"title": {" 제목 "}, "content": {"본문"}, "categoryId": {"2"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/boards/42" {
		t.Fatalf("expected redirect to the new post, got %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestBoardCreateFailureShowsFallback(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/boards", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h := newHarness(t, backend)
	h.login()

	w := h.do(http.MethodPost, "/boards/create", url.Values{"title": {"제목"}, "content": {"본문"}, "categoryId": {"2"}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "게시글 작성 중 오류가 발생했습니다.") {
		t.Fatalf("expected fallback message, got %d", w.Code)
	}
}

func TestBoardDetailShowsOwnerControls(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/boards/5", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", map[string]any{"id": 5, "title": "내 글", "content": "본문", "userId": 7})
	})
	backend.mux.HandleFunc("/api/boards/6", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusNotFound, false, "게시글을 찾을 수 없습니다.", nil)
	})
	h := newHarness(t, backend)

	anon := h.do(http.MethodGet, "/boards/5", nil)
	if strings.Contains(anon.Body.String(), "/boards/5/edit") {
		t.Fatal("anonymous visitor must not see edit controls")
	}
	h.login()
	own := h.do(http.MethodGet, "/boards/5", nil)
	if !strings.Contains(own.Body.String(), "/boards/5/edit") {
		t.Fatal("author must see edit controls")
	}
	if w := h.do(http.MethodGet, "/boards/6", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func ownPost(backend *fakeBackend, update, remove http.HandlerFunc) {
	backend.mux.HandleFunc("/api/boards/5", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			update(w, r)
		case http.MethodDelete:
			remove(w, r)
		default:
			envelope(w, http.StatusOK, true, "", map[string]any{"id": 5, "title": "내 글", "content": "본문", "categoryId": 1, "userId": 7})
		}
	})
}

func TestBoardEdit(t *testing.T) {
	unauthorized := false
	backend := newBackend(member)
	ownPost(backend, func(w http.ResponseWriter, r *http.Request) {
		if unauthorized {
			envelope(w, http.StatusUnauthorized, false, "로그인이 필요합니다.", nil)
			return
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["title"] != "고친 제목" || req["categoryId"] != float64(2) {
			t.Errorf("unexpected update body %#v", req)
		}
		envelope(w, http.StatusOK, true, "게시글이 수정되었습니다.", map[string]any{"id": 5})
	}, nil)
	h := newHarness(t, backend)
	h.login()

	page := h.do(http.MethodGet, "/boards/5/edit", nil)
	if page.Code != http.StatusOK || !strings.Contains(page.Body.String(), `value="내 글"`) {
		t.Fatalf("edit form not pre-filled: %d", page.Code)
	}

	w := h.do(http.MethodPost, "/boards/5/edit", url.Values{"title": {"고친 제목"}, "content": {""}, "categoryId": {"2"}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "내용을 입력해주세요.") {
		t.Fatalf("expected validation error, got %d", w.Code)
	}
	if len(backend.callsTo(http.MethodPut, "/api/boards/5")) != 0 {
		t.Fatal("invalid edit must not reach the backend")
	}

	h.do(http.MethodGet, "/boards", nil)
	if !h.redis.Exists(utils.CategoryCacheKey) {
		t.Fatal("category list not cached")
	}
	w = h.do(http.MethodPost, "/boards/5/edit", url.Values{"title": {" 고친 제목 "}, "content": {"새 본문"}, "categoryId": {"2"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/boards/5" {
		t.Fatalf("expected redirect to the post, got %d %s", w.Code, w.Header().Get("Location"))
	}
	if h.redis.Exists(utils.CategoryCacheKey) {
		t.Fatal("category cache must be dropped after an edit")
	}
	if detail := h.do(http.MethodGet, "/boards/5", nil); !strings.Contains(detail.Body.String(), "게시글이 수정되었습니다.") {
		t.Fatal("missing update flash")
	}

	unauthorized = true
	w = h.do(http.MethodPost, "/boards/5/edit", url.Values{"title": {"고친 제목"}, "content": {"새 본문"}, "categoryId": {"2"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestBoardDelete(t *testing.T) {
	fail := false
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/boards", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", boardPage(0, 1, 1, 1))
	})
	ownPost(backend, nil, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			envelope(w, http.StatusForbidden, false, "삭제 권한이 없습니다.", nil)
			return
		}
		envelope(w, http.StatusOK, true, "게시글이 삭제되었습니다.", nil)
	})
	h := newHarness(t, backend)
	h.login()

	h.do(http.MethodGet, "/boards", nil)
	w := h.do(http.MethodPost, "/boards/5/delete", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/boards" {
		t.Fatalf("expected redirect to the list, got %d %s", w.Code, w.Header().Get("Location"))
	}
	if h.redis.Exists(utils.CategoryCacheKey) {
		t.Fatal("category cache must be dropped after a delete")
	}
	if list := h.do(http.MethodGet, "/boards", nil); !strings.Contains(list.Body.String(), "게시글이 삭제되었습니다.") {
		t.Fatal("missing delete flash")
	}
	if n := len(backend.callsTo(http.MethodGet, "/api/categories")); n != 2 {
		t.Fatalf("expected categories to be refetched once, got %d calls", n)
	}

	fail = true
	w = h.do(http.MethodPost, "/boards/5/delete", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/boards/5" {
		t.Fatalf("expected redirect back to the post, got %d %s", w.Code, w.Header().Get("Location"))
	}
	if detail := h.do(http.MethodGet, "/boards/5", nil); !strings.Contains(detail.Body.String(), "삭제 권한이 없습니다.") {
		t.Fatal("missing delete failure flash")
	}
}

func TestBoardCategoryMissingFromCache(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/categories/3", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", map[string]any{"id": 3, "name": "새게시판", "description": "방금 생긴 곳"})
	})
	backend.mux.HandleFunc("/api/categories/9", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusNotFound, false, "카테고리를 찾을 수 없습니다.", nil)
	})
	backend.mux.HandleFunc("/api/boards/category/3", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", boardPage(0, 1, 0, 0))
	})
	h := newHarness(t, backend)

	w := h.do(http.MethodGet, "/boards/category/3", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "방금 생긴 곳") {
		t.Fatalf("category heading not resolved: %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/boards/category/9", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category, got %d", w.Code)
	}
	if len(backend.callsTo(http.MethodGet, "/api/boards/category/9")) != 0 {
		t.Fatal("unknown category must not be listed")
	}
}

func TestSessionEndpointCORS(t *testing.T) {
	h := newHarness(t, newBackend(member))

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("credentials must be allowed")
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	h.router.ServeHTTP(w, preflight)
	if w.Code != http.StatusNoContent || !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "GET") {
		t.Fatalf("unexpected preflight answer %d %v", w.Code, w.Header())
	}

	foreign := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	foreign.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	h.router.ServeHTTP(w, foreign)
	if w.Header().Get("Access-Control-Allow-Origin") != "" || w.Code == http.StatusOK {
		t.Fatalf("foreign origin must be refused, got %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestHomeShowsSurveyCompletion(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/family-survey/completion-status", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", false)
	})
	h := newHarness(t, backend)

	if anon := h.do(http.MethodGet, "/", nil); strings.Contains(anon.Body.String(), "survey-status") {
		t.Fatal("anonymous visitors have no survey status")
	}
	if len(backend.callsTo(http.MethodGet, "/api/family-survey/completion-status")) != 0 {
		t.Fatal("completion status must only be asked for members")
	}
	h.login()
	if home := h.do(http.MethodGet, "/", nil); !strings.Contains(home.Body.String(), "설문 미완료") {
		t.Fatal("missing survey completion badge")
	}
}

func TestSurveyOtherRequiresDescription(t *testing.T) {
	backend := newBackend(member)
	h := newHarness(t, backend)
	h.login()

	w := h.do(http.MethodPost, "/survey", url.Values{
		"birthDate":                 {"1980-05-17"},
		"relationshipToDeceased":    {"OTHER"},
		"relationshipDescription":   {""},
		"psychologicalSupportLevel": {"HIGH"},
		"privacyAgreement":          {"true"},
	})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "기타 관계에 대한 설명을 입력해주세요.") {
		t.Fatalf("expected description error, got %d", w.Code)
	}
	if len(backend.callsTo(http.MethodPost, "/api/family-survey/submit")) != 0 {
		t.Fatal("invalid survey must not be submitted")
	}
}

func TestSurveyPrefillAndSubmit(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/family-survey/my-survey", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", map[string]any{
			"id": 3, "birthDate": "1975-03-02", "relationshipToDeceased": "SPOUSE",
			"psychologicalSupportLevel": "LOW", "privacyAgreement": true, "surveyCompleted": false,
		})
	})
	backend.mux.HandleFunc("/api/family-survey/submit", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["relationshipToDeceased"] != "CHILD" || req["meetingParticipationDesire"] != true {
			t.Errorf("unexpected submit body %#v", req)
		}
		envelope(w, http.StatusOK, true, "설문조사가 제출되었습니다.", map[string]any{
			"id": 3, "birthDate": "1975-03-02", "relationshipToDeceased": "CHILD",
			"psychologicalSupportLevel": "LOW", "meetingParticipationDesire": true,
			"privacyAgreement": true, "surveyCompleted": true,
		})
	})
	h := newHarness(t, backend)
	h.login()

	page := h.do(http.MethodGet, "/survey", nil)
	body := page.Body.String()
	if !strings.Contains(body, `value="1975-03-02"`) || !strings.Contains(body, `<option value="SPOUSE" selected>`) || !strings.Contains(body, "임시저장") {
		t.Fatal("existing survey not pre-filled")
	}

	w := h.do(http.MethodPost, "/survey", url.Values{
		"birthDate":                  {"1975-03-02"},
		"relationshipToDeceased":     {"CHILD"},
		"psychologicalSupportLevel":  {"LOW"},
		"meetingParticipationDesire": {"true"},
		"privacyAgreement":           {"true"},
	})
	if !strings.Contains(w.Body.String(), "설문조사가 성공적으로 저장되었습니다.") || !strings.Contains(w.Body.String(), "완료됨") {
		t.Fatal("expected success message and completed badge")
	}
}

func TestSurveyRerenderKeepsStatusBadge(t *testing.T) {
	backend := newBackend(member)
	backend.mux.HandleFunc("/api/family-survey/my-survey", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", map[string]any{
			"id": 3, "birthDate": "1975-03-02", "relationshipToDeceased": "SPOUSE",
			"psychologicalSupportLevel": "LOW", "privacyAgreement": true, "surveyCompleted": true,
		})
	})
	backend.mux.HandleFunc("/api/family-survey/submit", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusInternalServerError, false, "", nil)
	})
	h := newHarness(t, backend)
	h.login()

	w := h.do(http.MethodPost, "/survey", url.Values{"birthDate": {"1975-03-02"}})
	body := w.Body.String()
	if !strings.Contains(body, "사망자와의 관계를 선택해주세요.") || !strings.Contains(body, "완료됨") {
		t.Fatalf("validation re-render lost the status badge: %d", w.Code)
	}

	w = h.do(http.MethodPost, "/survey", url.Values{
		"birthDate":                 {"1975-03-02"},
		"relationshipToDeceased":    {"SPOUSE"},
		"psychologicalSupportLevel": {"LOW"},
		"privacyAgreement":          {"true"},
	})
	body = w.Body.String()
	if !strings.Contains(body, "설문조사 저장 중 오류가 발생했습니다.") || !strings.Contains(body, "완료됨") {
		t.Fatalf("failed submit re-render lost the status badge: %d", w.Code)
	}
}

func TestSurveyRequiresLogin(t *testing.T) {
	h := newHarness(t, newBackend(member))
	w := h.do(http.MethodGet, "/survey", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d", w.Code)
	}
}

func TestAdminPagesRequireAdmin(t *testing.T) {
	h := newHarness(t, newBackend(member))
	h.login()
	if w := h.do(http.MethodGet, "/admin/statistics", nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", w.Code)
	}
}

func TestAdminStatistics(t *testing.T) {
	admin := map[string]any{"id": 1, "username": "admin", "name": "관리자", "isAdmin": true}
	backend := newBackend(admin)
	backend.mux.HandleFunc("/api/family-survey/admin/statistics", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "", map[string]any{
			"totalSurveys": 12, "completedSurveys": 9, "incompleteSurveys": 3,
			"relationshipStatistics":      map[string]int{"SPOUSE": 4, "CHILD": 8},
			"meetingParticipationDesired": 5, "meetingParticipationNotDesired": 7,
			"griefStageStatistics":         map[string]int{"DENIAL": 2, "ACCEPTANCE": 6},
			"familySupportLevelStatistics": map[string]int{"STRONG": 3},
			"counselingInterested":         4, "livingAloneCount": 2,
		})
	})
	h := newHarness(t, backend)
	h.login()

	w := h.do(http.MethodGet, "/admin/statistics", nil)
	body := w.Body.String()
	if w.Code != http.StatusOK || !strings.Contains(body, `<strong class="stat-total">12</strong>`) || !strings.Contains(body, "배우자") {
		t.Fatalf("statistics not rendered: %d", w.Code)
	}
	for _, want := range []string{
		"애도 단계별 통계", "<td>ACCEPTANCE</td><td>6</td>",
		"가족 지원 수준별 통계", "<td>STRONG</td><td>3</td>",
		"상담 희망: <strong>4</strong>", "홀로 거주: <strong>2</strong>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("statistics page is missing %q", want)
		}
	}
}

func TestHealthAndNotFound(t *testing.T) {
	h := newHarness(t, newBackend(member))
	if w := h.do(http.MethodGet, "/health", nil); w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected health status %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/no/such/page", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
