package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dojo/internal/application/orchestrators"
	"dojo/internal/application/projections"
)

// notifyTimeout bounds the decision email so a slow provider cannot hold the response.
const notifyTimeout = 10 * time.Second

// handleManagerDashboard handles GET /manager
func (s *Server) handleManagerDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryManagerDashboard(r.Context(), projections.ManagerDashboardDeps{
		Shifts:     s.stores.Shifts,
		Requests:   s.stores.Requests,
		Users:      s.stores.Users,
		Children:   s.stores.Children,
		Techniques: s.stores.Techniques,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	s.render(w, r, "manager_dashboard.html", "Manager Dashboard", result, nil)
}

// handleResolveRequest handles POST /manager/requests/{id}/{action}
func (s *Server) handleResolveRequest(w http.ResponseWriter, r *http.Request) {
	result, err := orchestrators.ExecuteResolveRequest(r.Context(), orchestrators.ResolveRequestInput{
		RequestID: r.PathValue("id"),
		Action:    r.PathValue("action"),
		ManagerID: currentUser(r).UserID,
	}, orchestrators.ResolveRequestDeps{
		InTx: s.resolveTx,
		Now:  s.now,
	})
	if err != nil {
		s.fail(w, r, err, "/manager")
		return
	}

	s.metrics.RequestResolved(result.Request.Type, result.Outcome)

	// The decision is committed; a failed email must not undo or hide it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), notifyTimeout)
	defer cancel()
	if _, err := orchestrators.ExecuteNotifyRequestDecision(ctx, result, orchestrators.NotifyRequestDecisionDeps{
		Users:  s.stores.Users,
		Sender: s.sender,
	}); err != nil {
		slog.Warn("notify_event", "event", "decision_email_failed", "request_id", result.Request.ID, "error", err)
	}

	s.succeed(w, r, "/manager", result.Message)
}

func shiftInput(r *http.Request) orchestrators.ShiftInput {
	return orchestrators.ShiftInput{
		EmployeeID:   r.FormValue("employee_id"),
		Date:         r.FormValue("shift_date"),
		StartTime:    r.FormValue("start_time"),
		EndTime:      r.FormValue("end_time"),
		ClassName:    r.FormValue("class_name"),
		ClearCallOut: r.FormValue("clear_call_out") == "on",
	}
}

// handleCreateShift handles POST /manager/shifts
func (s *Server) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, "/manager") {
		return
	}
	_, err := orchestrators.ExecuteCreateShift(r.Context(), shiftInput(r), orchestrators.CreateShiftDeps{
		Users:      s.stores.Users,
		Shifts:     s.stores.Shifts,
		GenerateID: s.newID,
	})
	if err != nil {
		s.fail(w, r, err, "/manager")
		return
	}
	s.succeed(w, r, "/manager", "Shift created.")
}

// handleUpdateShift handles POST /manager/shifts/{id}/edit
func (s *Server) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, "/manager") {
		return
	}
	_, err := orchestrators.ExecuteUpdateShift(r.Context(), r.PathValue("id"), shiftInput(r), orchestrators.UpdateShiftDeps{
		Users:  s.stores.Users,
		Shifts: s.stores.Shifts,
	})
	if err != nil {
		s.fail(w, r, err, "/manager")
		return
	}
	s.succeed(w, r, "/manager", "Shift updated.")
}

// handleAddChildClass handles POST /manager/children/{id}/classes
func (s *Server) handleAddChildClass(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, "/manager") {
		return
	}
	_, err := orchestrators.ExecuteAddChildClass(r.Context(), orchestrators.AddChildClassInput{
		ChildID:        r.PathValue("id"),
		Date:           r.FormValue("class_date"),
		StartTime:      r.FormValue("start_time"),
		EndTime:        r.FormValue("end_time"),
		Title:          r.FormValue("class_title"),
		InstructorName: r.FormValue("instructor_name"),
	}, orchestrators.AddChildClassDeps{
		Children:   s.stores.Children,
		Classes:    s.stores.Classes,
		GenerateID: s.newID,
	})
	if err != nil {
		s.fail(w, r, err, "/manager")
		return
	}
	s.succeed(w, r, "/manager", "Class added.")
}

// handlePerf handles GET /manager/perf?minutes=N (default 60) as JSON.
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Collector == nil {
		http.Error(w, "performance collection disabled", http.StatusNotFound)
		return
	}
	minutes := 60
	if v, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && v > 0 {
		minutes = v
	}
	snap := s.cfg.Collector.Snapshot(time.Now().Add(-time.Duration(minutes)*time.Minute), 10)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.Error("internal_error", "path", r.URL.Path, "error", err)
	}
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if p, ok := s.db.(interface{ PingContext(context.Context) error }); ok {
		if err := p.PingContext(r.Context()); err != nil {
			slog.Error("health_event", "event", "db_unreachable", "error", err)
			status, code = "db_unreachable", http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
