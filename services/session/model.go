package session

import (
	"time"

	"cokothon/models"
	"cokothon/services/apiclient"

	"github.com/google/uuid"
)

// FlashKind tells the layout how to style a one-shot message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Session is the server-side state of one browser.
type Session struct {
	ID          string                `json:"id"`
	User        *models.User          `json:"user,omitempty"`
	IsLoggedIn  bool                  `json:"isLoggedIn"`
	Checked     bool                  `json:"checked"`
	CheckedAt   time.Time             `json:"checkedAt"`
	Credentials apiclient.Credentials `json:"credentials"`
	Flashes     []Flash               `json:"flashes,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// New returns an unresolved session with a fresh id.
func New() *Session {
	return &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
}

// RenewID gives the session a fresh id. Called whenever the privilege level
// changes so an id handed out before login never carries backend credentials.
func (s *Session) RenewID() {
	s.ID = uuid.NewString()
}

// IsLoading reports whether the login status has not been resolved yet.
func (s *Session) IsLoading() bool {
	return !s.Checked
}

// NeedsCheck reports whether the login status must be (re)queried.
func (s *Session) NeedsCheck(interval time.Duration, now time.Time) bool {
	if !s.Checked {
		return true
	}
	return interval > 0 && now.Sub(s.CheckedAt) >= interval
}

// IsAdmin reports whether the logged-in user is an administrator.
func (s *Session) IsAdmin() bool {
	return s.IsLoggedIn && s.User != nil && s.User.IsAdmin
}

func (s *Session) AddFlash(kind FlashKind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
}

// PopFlashes returns and clears the pending flashes.
func (s *Session) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}

// ClearAuth forgets the user. Backend credentials are kept.
func (s *Session) ClearAuth() {
	s.User = nil
	s.IsLoggedIn = false
}
