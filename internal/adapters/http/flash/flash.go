// Package flash carries one-shot outcome messages across a redirect in a
// signed cookie.
package flash

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

// CookieName is the cookie holding the pending message.
const CookieName = "dojo_flash"

// Levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

// Message is the outcome shown on the next rendered page.
type Message struct {
	Level   string
	Message string
}

// Store signs and verifies flash cookies.
type Store struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// New creates a Store signing with hashKey.
// PRE: len(hashKey) >= 32
// POST: cookies are HMAC-signed; they are not encrypted since messages are not secret
func New(hashKey []byte, secure bool) *Store {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(300)
	return &Store{codec: codec, secure: secure}
}

// Set stores a message for the next request, replacing any pending one.
func (s *Store) Set(w http.ResponseWriter, level, message string) {
	encoded, err := s.codec.Encode(CookieName, Message{Level: level, Message: message})
	if err != nil {
		slog.Error("flash_event", "event", "encode_failed", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending message and clears it.
// POST: ok is false when no valid message was pending; a tampered or expired
// cookie is cleared and ignored
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) (Message, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Message{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	var m Message
	if err := s.codec.Decode(CookieName, cookie.Value, &m); err != nil {
		slog.Warn("flash_event", "event", "decode_failed", "error", err)
		return Message{}, false
	}
	return m, true
}

// Redirect sets a message and redirects with 303 See Other.
func (s *Store) Redirect(w http.ResponseWriter, r *http.Request, to, level, message string) {
	s.Set(w, level, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
