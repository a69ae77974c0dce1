package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "giftyy-session"
	SessionKey  = "session_id"
)

// SessionManager identifies anonymous buyers with a signed cookie
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secretKey string, secure bool) *SessionManager {
	store := sessions.NewCookieStore([]byte(secretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30, // 30 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// Middleware loads or starts the buyer session and exposes its id through
// GetSessionID. Corrupted cookies start a fresh session.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.store.Get(c.Request, SessionName)
		if err != nil {
			session = sessions.NewSession(m.store, SessionName)
			session.Options = m.store.Options
		}

		sessionID, ok := session.Values[SessionKey].(string)
		if !ok || sessionID == "" {
			sessionID = uuid.NewString()
			session.Values[SessionKey] = sessionID
			session.IsNew = true

			if err := session.Save(c.Request, c.Writer); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
				c.Abort()
				return
			}
		}

		c.Set(SessionKey, sessionID)
		c.Next()
	}
}

// GetSessionID gets the session ID from gin context
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
