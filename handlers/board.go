package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cokothon/middleware"
	"cokothon/models"
	"cokothon/services/apiclient"
	"cokothon/services/board"
	"cokothon/services/session"
	"cokothon/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BoardHandler serves the board list, detail and form views.
type BoardHandler struct {
	API *apiclient.Client
}

func NewBoardHandler(api *apiclient.Client) *BoardHandler {
	return &BoardHandler{API: api}
}

type listScope struct {
	categoryID int64
	keyword    string
	search     bool
}

func (h *BoardHandler) List(c *gin.Context) {
	h.renderList(c, listScope{})
}

func (h *BoardHandler) ListByCategory(c *gin.Context) {
	id, ok := paramID(c, "categoryId")
	if !ok {
		notFound(c, "")
		return
	}
	h.renderList(c, listScope{categoryID: id})
}

func (h *BoardHandler) Search(c *gin.Context) {
	h.renderList(c, listScope{keyword: strings.TrimSpace(c.Query("keyword")), search: true})
}

// renderList never fails the request: load errors are shown on the page.
func (h *BoardHandler) renderList(c *gin.Context, scope listScope) {
	logger := getLogger(c)
	ctx := c.Request.Context()
	creds := &middleware.GetSession(c).Credentials
	page, size := board.ParseListQuery(c.Query("page"), c.Query("size"))

	data := gin.H{"Title": "게시판", "Heading": "전체 게시글", "Keyword": scope.keyword}

	categories, err := h.API.Categories.List(ctx, creds)
	if err != nil {
		logger.Warn("Failed to load categories", zap.Error(err))
	}
	data["Categories"] = categories

	var (
		result *apiclient.BoardPage
		extra  url.Values
	)
	switch {
	case scope.search:
		data["Heading"] = "검색 결과"
		if scope.keyword == "" {
			data["Error"] = board.MsgKeywordRequired
			data["Listing"] = board.NewListing(nil, size, c.Request.URL.Path, nil)
			render(c, http.StatusOK, "boards.tmpl", data)
			return
		}
		data["Heading"] = fmt.Sprintf("'%s' 검색 결과", scope.keyword)
		extra = url.Values{"keyword": {scope.keyword}}
		result, err = h.API.Boards.Search(ctx, creds, scope.keyword, page, size)
	case scope.categoryID > 0:
		cat := models.FindCategory(categories, scope.categoryID)
		if cat == nil {
			// The cached list may predate the category.
			if cat, err = h.API.Categories.Get(ctx, creds, scope.categoryID); err != nil {
				if apiclient.IsNotFound(err) {
					notFound(c, board.MsgCategoryNotFound)
					return
				}
				logger.Warn("Failed to load category", zap.Int64("categoryId", scope.categoryID), zap.Error(err))
			}
		}
		if cat != nil {
			data["Category"] = cat
			data["Title"] = cat.Name
		}
		result, err = h.API.Boards.ListByCategory(ctx, creds, scope.categoryID, page, size)
	default:
		result, err = h.API.Boards.List(ctx, creds, page, size, apiclient.DefaultBoardSort)
	}
	if err != nil {
		logger.Error("Failed to load boards", zap.Int64("categoryId", scope.categoryID), zap.Int("page", page), zap.Error(err))
		data["Error"] = apiclient.MessageOr(err, board.MsgLoadFailed)
	}
	data["Listing"] = board.NewListing(result, size, c.Request.URL.Path, extra)
	render(c, http.StatusOK, "boards.tmpl", data)
}

func (h *BoardHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, board.MsgNotFound)
		return
	}
	sess := middleware.GetSession(c)
	b, err := h.API.Boards.Get(c.Request.Context(), &sess.Credentials, id)
	if err != nil {
		getLogger(c).Info("Board not available", zap.Int64("boardId", id), zap.Error(err))
		notFound(c, board.MsgNotFound)
		return
	}
	render(c, http.StatusOK, "board_detail.tmpl", gin.H{
		"Title":   b.Title,
		"Board":   b,
		"CanEdit": canEdit(sess, b),
	})
}

func canEdit(sess *session.Session, b *models.Board) bool {
	return sess.IsLoggedIn && (b.OwnedBy(sess.User) || sess.IsAdmin())
}

func (h *BoardHandler) formData(c *gin.Context, heading, action, submit, cancel string, form board.Form) gin.H {
	data := gin.H{
		"Title":   heading,
		"Heading": heading,
		"Action":  action,
		"Submit":  submit,
		"Cancel":  cancel,
		"Form":    form,
	}
	categories, err := h.API.Categories.List(c.Request.Context(), &middleware.GetSession(c).Credentials)
	if err != nil {
		getLogger(c).Warn("Failed to load categories", zap.Error(err))
		data["Error"] = board.MsgCategoriesFailed
	}
	data["Categories"] = categories
	return data
}

func (h *BoardHandler) CreatePage(c *gin.Context) {
	form := board.Form{CategoryID: c.Query("categoryId")}
	render(c, http.StatusOK, "board_form.tmpl", h.formData(c, "글쓰기", "/boards/create", "작성하기", "/boards", form))
}

// Create validates locally and only calls the backend for a valid form.
func (h *BoardHandler) Create(c *gin.Context) {
	logger := getLogger(c)
	sess := middleware.GetSession(c)

	var form board.Form
	if err := c.ShouldBind(&form); err != nil {
		logger.Debug("Invalid board form", zap.Error(err))
	}
	rerender := func(message string) {
		data := h.formData(c, "글쓰기", "/boards/create", "작성하기", "/boards", form)
		data["Error"] = message
		render(c, http.StatusOK, "board_form.tmpl", data)
	}

	req, err := board.Validate(form)
	if err != nil {
		rerender(validationMessage(err))
		return
	}

	created, msg, err := h.API.Boards.Create(c.Request.Context(), &sess.Credentials, req)
	if err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		logger.Error("Failed to create board", zap.Error(err))
		rerender(apiclient.MessageOr(err, board.MsgCreateFailed))
		return
	}
	h.API.Categories.Invalidate(c.Request.Context())
	logger.Info("Board created", zap.Int64("boardId", created.ID))
	redirectWithFlash(c, session.FlashSuccess, msg, fmt.Sprintf("/boards/%d", created.ID))
}

func (h *BoardHandler) EditPage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, board.MsgNotFound)
		return
	}
	sess := middleware.GetSession(c)
	b, err := h.API.Boards.Get(c.Request.Context(), &sess.Credentials, id)
	if err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		notFound(c, board.MsgNotFound)
		return
	}
	if !canEdit(sess, b) {
		utils.RenderError(c, http.StatusForbidden, "게시글을 수정할 권한이 없습니다.")
		return
	}
	action := fmt.Sprintf("/boards/%d/edit", id)
	render(c, http.StatusOK, "board_form.tmpl", h.formData(c, "게시글 수정", action, "수정하기", fmt.Sprintf("/boards/%d", id), board.FormFromBoard(b)))
}

func (h *BoardHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, board.MsgNotFound)
		return
	}
	logger := getLogger(c)
	sess := middleware.GetSession(c)

	var form board.Form
	if err := c.ShouldBind(&form); err != nil {
		logger.Debug("Invalid board form", zap.Error(err))
	}
	detail := fmt.Sprintf("/boards/%d", id)
	rerender := func(message string) {
		data := h.formData(c, "게시글 수정", detail+"/edit", "수정하기", detail, form)
		data["Error"] = message
		render(c, http.StatusOK, "board_form.tmpl", data)
	}

	req, err := board.Validate(form)
	if err != nil {
		rerender(validationMessage(err))
		return
	}
	_, msg, err := h.API.Boards.Update(c.Request.Context(), &sess.Credentials, id, req)
	if err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		logger.Error("Failed to update board", zap.Int64("boardId", id), zap.Error(err))
		rerender(apiclient.MessageOr(err, board.MsgUpdateFailed))
		return
	}
	// The post may have moved to another category.
	h.API.Categories.Invalidate(c.Request.Context())
	redirectWithFlash(c, session.FlashSuccess, msg, detail)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, board.MsgNotFound)
		return
	}
	logger := getLogger(c)
	sess := middleware.GetSession(c)

	if _, err := h.API.Boards.Delete(c.Request.Context(), &sess.Credentials, id); err != nil {
		if handleUnauthorized(c, err) {
			return
		}
		logger.Error("Failed to delete board", zap.Int64("boardId", id), zap.Error(err))
		redirectWithFlash(c, session.FlashError, apiclient.MessageOr(err, board.MsgDeleteFailed), fmt.Sprintf("/boards/%d", id))
		return
	}
	h.API.Categories.Invalidate(c.Request.Context())
	logger.Info("Board deleted", zap.Int64("boardId", id))
	redirectWithFlash(c, session.FlashSuccess, board.MsgDeleted, "/boards")
}
