package web

import (
	"net/http"

	"dojo/internal/adapters/http/flash"
	"dojo/internal/adapters/http/middleware"
	"dojo/internal/application/orchestrators"
	"dojo/internal/domain/access"
	"dojo/internal/domain/account"
)

// currentUser returns the caller. Routes behind RequireRole always have one.
func currentUser(r *http.Request) access.Identity {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return *sess.Identity()
}

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// handleLoginForm handles GET /login
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", "Login", nil, nil)
}

// handleLogin handles POST /login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, "/login") {
		return
	}

	id, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}, orchestrators.LoginDeps{Users: s.stores.Users})
	if err != nil {
		s.fail(w, r, err, "/login")
		return
	}

	token, err := s.sessions.Create(id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleRegisterForm handles GET /register
func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", "Register", nil, nil)
}

// handleRegister handles POST /register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, "/register") {
		return
	}

	_, err := orchestrators.ExecuteRegister(r.Context(), orchestrators.RegisterInput{
		Username:        r.FormValue("username"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		Role:            r.FormValue("role"),
		Email:           r.FormValue("email"),
		ChildName:       r.FormValue("child_name"),
	}, orchestrators.RegisterDeps{
		InTx:       s.registerTx,
		GenerateID: s.newID,
		Now:        s.now,
	})
	if err != nil {
		s.fail(w, r, err, "/register")
		return
	}

	s.succeed(w, r, "/login", "Registration successful. Please login.")
}

// handleLogout handles POST /logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	s.flashes.Redirect(w, r, "/login", flash.LevelInfo, "Logged out.")
}

// handleDashboard handles GET /dashboard by sending each role to its home page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	switch currentUser(r).Role {
	case account.RoleManager:
		http.Redirect(w, r, "/manager", http.StatusSeeOther)
	case account.RoleEmployee:
		http.Redirect(w, r, "/employee", http.StatusSeeOther)
	case account.RoleParent:
		http.Redirect(w, r, "/parent", http.StatusSeeOther)
	default:
		if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
			s.sessions.Delete(cookie.Value)
		}
		middleware.ClearSessionCookie(w)
		s.flashes.Redirect(w, r, "/login", flash.LevelError, "Unknown role.")
	}
}
