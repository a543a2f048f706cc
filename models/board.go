package models

// Board is a post as returned by the /boards endpoints.
type Board struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	UserID       *int64    `json:"userId,omitempty"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	ViewCount    int       `json:"viewCount"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
	IsAdminPost  bool      `json:"isAdminPost"`
}

// OwnedBy reports whether u wrote the post.
func (b Board) OwnedBy(u *User) bool {
	return u != nil && b.UserID != nil && *b.UserID == u.ID
}

// BoardRequest is the body of POST /boards and PUT /boards/{id}.
type BoardRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int64  `json:"categoryId"`
}
