package board

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"cokothon/models"
)

const (
	DefaultPage = 0
	DefaultSize = 10

	// MaxPageLinks caps the numbered links of the pagination bar.
	MaxPageLinks = 10

	MaxTitleLength   = 100
	MaxContentLength = 2000

	MsgTitleRequired    = "제목을 입력해주세요."
	MsgContentRequired  = "내용을 입력해주세요."
	MsgCategoryRequired = "카테고리를 선택해주세요."
	MsgTitleTooLong     = "제목은 100자 이하로 입력해주세요."
	MsgContentTooLong   = "내용은 2000자 이하로 입력해주세요."
	MsgKeywordRequired  = "검색어를 입력해주세요."
	MsgCreateFailed     = "게시글 작성 중 오류가 발생했습니다."
	MsgUpdateFailed     = "게시글 수정 중 오류가 발생했습니다."
	MsgDeleteFailed     = "게시글 삭제 중 오류가 발생했습니다."
	MsgLoadFailed       = "게시글을 불러오는 중 오류가 발생했습니다."
	MsgNotFound         = "게시글을 찾을 수 없습니다."
	MsgDeleted          = "게시글이 삭제되었습니다."
	MsgCategoriesFailed = "카테고리 목록을 불러오는데 실패했습니다."
	MsgCategoryNotFound = "카테고리를 찾을 수 없습니다."
)

// ValidationError carries the first failed form check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseListQuery reads page and size query values, falling back to the
// defaults for anything unusable.
func ParseListQuery(pageStr, sizeStr string) (page, size int) {
	page, size = DefaultPage, DefaultSize
	if p, err := strconv.Atoi(strings.TrimSpace(pageStr)); err == nil && p >= 0 {
		page = p
	}
	if s, err := strconv.Atoi(strings.TrimSpace(sizeStr)); err == nil && s > 0 {
		size = s
	}
	return page, size
}

// Form is the raw board form as posted by the browser.
type Form struct {
	Title      string `form:"title"`
	Content    string `form:"content"`
	CategoryID string `form:"categoryId"`
}

// FormFromBoard pre-fills the edit form.
func FormFromBoard(b *models.Board) Form {
	return Form{Title: b.Title, Content: b.Content, CategoryID: strconv.FormatInt(b.CategoryID, 10)}
}

// Validate trims the form and checks it in display order. The returned
// request is only meaningful when err is nil.
func Validate(f Form) (models.BoardRequest, error) {
	title := strings.TrimSpace(f.Title)
	content := strings.TrimSpace(f.Content)
	catStr := strings.TrimSpace(f.CategoryID)

	switch {
	case title == "":
		return models.BoardRequest{}, &ValidationError{Field: "title", Message: MsgTitleRequired}
	case content == "":
		return models.BoardRequest{}, &ValidationError{Field: "content", Message: MsgContentRequired}
	case catStr == "":
		return models.BoardRequest{}, &ValidationError{Field: "categoryId", Message: MsgCategoryRequired}
	}
	categoryID, err := strconv.ParseInt(catStr, 10, 64)
	if err != nil || categoryID <= 0 {
		return models.BoardRequest{}, &ValidationError{Field: "categoryId", Message: MsgCategoryRequired}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return models.BoardRequest{}, &ValidationError{Field: "title", Message: MsgTitleTooLong}
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return models.BoardRequest{}, &ValidationError{Field: "content", Message: MsgContentTooLong}
	}
	return models.BoardRequest{Title: title, Content: content, CategoryID: categoryID}, nil
}
