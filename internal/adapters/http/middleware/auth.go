package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dojo/internal/adapters/http/flash"
	"dojo/internal/domain/access"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionTTL bounds how long a login lasts.
const SessionTTL = 24 * time.Hour

// Redirect targets and messages of the access gate.
const (
	LoginPath       = "/login"
	DashboardPath   = "/dashboard"
	MsgLoginFirst   = "Please login first."
	MsgAccessDenied = "You do not have access to that page."
)

// Session represents an authenticated session.
type Session struct {
	UserID    string
	Username  string
	Role      string
	CreatedAt time.Time
}

// Identity converts the session into the caller identity used by access checks.
func (s Session) Identity() *access.Identity {
	return &access.Identity{UserID: s.UserID, Username: s.Username, Role: s.Role}
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores a new session and returns the token.
// PRE: id.UserID and id.Role are non-empty
// POST: Session is stored, token is returned
func (ss *SessionStore) Create(id access.Identity) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		UserID:    id.UserID,
		Username:  id.Username,
		Role:      id.Role,
		CreatedAt: ss.now(),
	}
	return token, nil
}

// Get retrieves a session by token.
// POST: expired sessions are removed and reported as missing
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(session.CreatedAt) > SessionTTL {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "dojo_session"

// SecureCookies marks session cookies Secure; set in production.
var SecureCookies = false

// Auth returns middleware that extracts the session from the cookie and sets it in context.
// It does NOT block unauthenticated requests; use RequireAuth or RequireRole for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that sends anonymous callers to the login page.
func RequireAuth(flashes *flash.Store) func(http.Handler) http.Handler {
	return RequireRole(flashes)
}

// RequireRole returns middleware admitting only the given roles.
// With no roles it admits any authenticated caller.
// POST: anonymous callers are redirected to LoginPath and callers with the
// wrong role to DashboardPath, each with an error flash and no page content
func RequireRole(flashes *flash.Store, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id *access.Identity
			if session, ok := GetSessionFromContext(r.Context()); ok {
				id = session.Identity()
			}

			switch decision := access.Check(id, roles...); decision {
			case access.Allowed:
				next.ServeHTTP(w, r)
			case access.Unauthenticated:
				flashes.Redirect(w, r, LoginPath, flash.LevelError, MsgLoginFirst)
			default:
				slog.Warn("access_event", "event", "access_denied", "decision", decision.String(),
					"user_id", id.UserID, "role", id.Role, "path", r.URL.Path)
				flashes.Redirect(w, r, DashboardPath, flash.LevelError, MsgAccessDenied)
			}
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
