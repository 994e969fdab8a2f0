package web

import (
	"net/http"

	"dojo/internal/adapters/http/middleware"
	"dojo/internal/domain/account"
)

// role gates h behind the access check for roles.
func (s *Server) role(h http.HandlerFunc, roles ...string) http.Handler {
	return middleware.RequireRole(s.flashes, roles...)(h)
}

// auth gates h behind any authenticated session.
func (s *Server) auth(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(s.flashes)(h)
}

// registerRoutes binds every page and action to mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	const (
		manager  = account.RoleManager
		employee = account.RoleEmployee
		parent   = account.RoleParent
	)

	// Public
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.Handle("GET /dashboard", s.auth(s.handleDashboard))

	// Employee
	mux.Handle("GET /employee", s.role(s.handleEmployeeDashboard, employee))
	mux.Handle("GET /employee/schedule", s.role(s.handleSchedule, employee))
	mux.Handle("GET /employee/progress", s.role(s.handleProgressScreen, employee))
	mux.Handle("POST /employee/progress", s.role(s.handleAssignTechnique, employee))
	mux.Handle("GET /employee/request-switch", s.role(s.handleRequestSwitchForm, employee))
	mux.Handle("POST /employee/request-switch", s.role(s.handleSubmitSwitch, employee))
	mux.Handle("GET /employee/request-callout", s.role(s.handleRequestCalloutForm, employee))
	mux.Handle("POST /employee/request-callout", s.role(s.handleSubmitCallout, employee))

	// Manager
	mux.Handle("GET /manager", s.role(s.handleManagerDashboard, manager))
	mux.Handle("GET /manager/schedule", s.role(s.handleSchedule, manager))
	mux.Handle("GET /manager/progress", s.role(s.handleProgressScreen, manager))
	mux.Handle("POST /manager/progress", s.role(s.handleAssignTechnique, manager))
	mux.Handle("POST /manager/requests/{id}/{action}", s.role(s.handleResolveRequest, manager))
	mux.Handle("POST /manager/shifts", s.role(s.handleCreateShift, manager))
	mux.Handle("POST /manager/shifts/{id}/edit", s.role(s.handleUpdateShift, manager))
	mux.Handle("POST /manager/techniques/{id}/edit", s.role(s.handleUpdateTechnique, manager))
	mux.Handle("POST /manager/techniques/{id}/delete", s.role(s.handleDeleteTechnique, manager))
	mux.Handle("POST /manager/children/{id}/classes", s.role(s.handleAddChildClass, manager))
	mux.Handle("GET /manager/perf", s.role(s.handlePerf, manager))

	// Staff
	mux.Handle("GET /techniques", s.role(s.handleTechniques, employee, manager))
	mux.Handle("POST /techniques", s.role(s.handleCreateTechnique, employee, manager))
	mux.Handle("POST /progress/{id}/toggle", s.role(s.handleToggleProgress, employee, manager))
	mux.Handle("POST /children", s.role(s.handleAddChild, employee, manager))
	mux.Handle("POST /children/{id}/notes", s.role(s.handleAddParentNote, employee, manager))

	// Parent
	mux.Handle("GET /parent", s.role(s.handleParentDashboard, parent))
}
