package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"dojo/internal/adapters/http/flash"
	"dojo/internal/domain/apperr"
)

const msgSomethingWentWrong = "Something went wrong. Please try again."

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// fail turns a classified error into an error flash and a redirect to back.
// Unclassified errors become a 500 without details.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindUnknown:
		internalError(w, r, err)
		return
	case apperr.KindStore:
		slog.Error("store_error", "path", r.URL.Path, "error", err)
	default:
		slog.Info("action_rejected", "path", r.URL.Path, "kind", kind.String(), "reason", err.Error())
	}
	s.flashes.Redirect(w, r, back, flash.LevelError, apperr.Message(err, msgSomethingWentWrong))
}

// succeed flashes a success message and redirects to to.
func (s *Server) succeed(w http.ResponseWriter, r *http.Request, to, message string) {
	s.flashes.Redirect(w, r, to, flash.LevelSuccess, message)
}

// backTo returns the same-host path of the Referer, or fallback.
// Only a path is returned, so an external Referer can never become an open redirect.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// parseForm parses the request body, flashing a generic error on failure.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request, back string) bool {
	if err := r.ParseForm(); err != nil {
		s.flashes.Redirect(w, r, back, flash.LevelError, "Invalid form submission.")
		return false
	}
	return true
}
