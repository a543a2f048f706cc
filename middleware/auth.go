package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cokothon/services/session"
	"cokothon/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionOptions configures the browser session cookie.
type SessionOptions struct {
	CookieName      string
	TTL             time.Duration
	RecheckInterval time.Duration
	Secure          bool
}

// SessionMiddleware loads the browser's session, or starts a new one,
// resolves its login status when due and persists it after the handler ran.
// The signed cookie is reissued on every request so its expiry slides with
// the Redis TTL. It is written when the response headers are committed, so an
// id renewed by the handler is the one the browser receives.
func SessionMiddleware(store session.Store, svc session.SessionService, signer *utils.SessionSigner, opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := loggerFrom(c)
		ctx := c.Request.Context()

		sess := loadSession(ctx, c, store, signer, opts.CookieName, logger)
		if sess.NeedsCheck(opts.RecheckInterval, time.Now()) {
			svc.CheckAuthStatus(ctx, sess)
		}
		loadedID := sess.ID

		token, err := signer.GenerateToken(sess.ID, opts.TTL)
		if err != nil {
			logger.Error("Failed to sign session cookie", zap.Error(err))
			utils.RenderError(c, http.StatusInternalServerError, utils.MsgInternalError)
			c.Abort()
			return
		}

		cw := &sessionCookieWriter{ResponseWriter: c.Writer}
		cw.issue = func() {
			if sess.ID != loadedID {
				if token, err = signer.GenerateToken(sess.ID, opts.TTL); err != nil {
					logger.Error("Failed to sign renewed session cookie", zap.Error(err))
					return
				}
			}
			http.SetCookie(cw.ResponseWriter, &http.Cookie{
				Name:     opts.CookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(opts.TTL.Seconds()),
				Secure:   opts.Secure,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Writer = cw

		c.Set(utils.SessionContextKey, sess)
		c.Next()

		cw.commit()
		c.Writer = cw.ResponseWriter

		// The request context may already be cancelled by a disconnecting client.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if sess.ID != loadedID {
			if err := store.Delete(saveCtx, loadedID); err != nil {
				logger.Warn("Failed to drop renewed session", zap.String("sessionId", loadedID), zap.Error(err))
			}
		}
		if err := store.Save(saveCtx, sess); err != nil {
			logger.Error("Failed to save session", zap.String("sessionId", sess.ID), zap.Error(err))
		}
	}
}

// sessionCookieWriter sets the session cookie right before the first byte
// of the response goes out.
type sessionCookieWriter struct {
	gin.ResponseWriter
	issue     func()
	committed bool
}

func (w *sessionCookieWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	if !w.ResponseWriter.Written() {
		w.issue()
	}
}

func (w *sessionCookieWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionCookieWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionCookieWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *sessionCookieWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

func loadSession(ctx context.Context, c *gin.Context, store session.Store, signer *utils.SessionSigner, cookieName string, logger *zap.Logger) *session.Session {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return session.New()
	}
	id, err := signer.ExtractSessionID(token)
	if err != nil {
		logger.Debug("Discarding invalid session cookie", zap.Error(err))
		return session.New()
	}
	sess, err := store.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.Warn("Failed to load session", zap.String("sessionId", id), zap.Error(err))
		}
		return session.New()
	}
	return sess
}

// GetSession returns the session loaded by SessionMiddleware, or a fresh
// unsaved one when the middleware did not run.
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(utils.SessionContextKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	sess := session.New()
	c.Set(utils.SessionContextKey, sess)
	return sess
}
