package session

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/martijn/authdesk/internal/core/domain"
)

const (
	CookieName = "authdesk_session"

	keyUserID = "user_id"
	keyName   = "user_name"
)

// Middleware installs the signed-cookie session store. The client only
// ever holds the opaque signed payload; handlers read and write the
// session through a Manager.
func Middleware(secret string, ttl time.Duration, secure bool) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(CookieName, store)
}

// Manager is the session store abstraction handlers are given instead
// of reaching into ambient request state.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Current returns the authenticated session for the request, if any.
func (m *Manager) Current(c *gin.Context) (*domain.Session, bool) {
	s := sessions.Default(c)

	userID, ok := s.Get(keyUserID).(int64)
	if !ok {
		return nil, false
	}
	name, _ := s.Get(keyName).(string)

	return &domain.Session{UserID: userID, Name: name}, true
}

// Establish writes the session and (re-)issues the cookie. Calling it
// on an already authenticated request slides the expiration window
// forward.
func (m *Manager) Establish(c *gin.Context, sess *domain.Session) error {
	s := sessions.Default(c)
	s.Set(keyUserID, sess.UserID)
	s.Set(keyName, sess.Name)
	return s.Save()
}

// Clear drops the session. Clearing an absent session is not an error.
func (m *Manager) Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}
