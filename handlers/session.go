package handlers

import (
	"net/http"
	"strings"

	"dbassistant/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "panel_session"
	SessionHeader = "X-Session-ID"

	sessionIDKey = "session_id"
	panelKey     = "panel"
	cookieMaxAge = 30 * 24 * 60 * 60
)

// SessionMiddleware resolves the caller's session id and attaches its panel
// to the context. API clients may pass the id in a header; browsers get a
// cookie. The id is echoed back in the response header.
func (h *Handlers) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestSessionID(c)
		if id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, cookieMaxAge, "/", "", false, true)
		}

		c.Header(SessionHeader, id)
		c.Set(sessionIDKey, id)
		c.Set(panelKey, h.sessions.Get(c.Request.Context(), id))
		c.Next()
	}
}

// requestSessionID returns the id the caller sent, header first.
func requestSessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return id
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// endSession drops the caller's panel and snapshot and expires the cookie.
// It does not mount a panel for callers without a session.
func (h *Handlers) endSession(c *gin.Context) {
	id := requestSessionID(c)
	if id == "" {
		return
	}
	c.Set(sessionIDKey, id)
	h.sessions.Drop(id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	h.logger.Debug().Str("session", id).Msg("Session reset")
}

func panelFrom(c *gin.Context) *service.Panel {
	return c.MustGet(panelKey).(*service.Panel)
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
