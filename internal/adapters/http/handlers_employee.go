package web

import (
	"net/http"

	"dojo/internal/adapters/http/flash"
	shiftStore "dojo/internal/adapters/storage/shift"
	"dojo/internal/application/orchestrators"
	"dojo/internal/application/projections"
	"dojo/internal/domain/account"
	"dojo/internal/domain/calendar"
	"dojo/internal/domain/request"
)

// handleEmployeeDashboard handles GET /employee
func (s *Server) handleEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.employeeDashboard(r)
	if err != nil {
		internalError(w, r, err)
		return
	}
	s.render(w, r, "employee_dashboard.html", "My Dashboard", result, nil)
}

func (s *Server) employeeDashboard(r *http.Request) (projections.EmployeeDashboardResult, error) {
	return projections.QueryEmployeeDashboard(r.Context(), projections.EmployeeDashboardQuery{
		EmployeeID: currentUser(r).UserID,
		Today:      s.now(),
	}, projections.EmployeeDashboardDeps{
		Shifts:   s.stores.Shifts,
		Requests: s.stores.Requests,
		Users:    s.stores.Users,
	})
}

// scheduleData feeds schedule.html.
type scheduleData struct {
	Calendar calendar.TwoWeeks[shiftStore.Listing]
	Prev     string
	Next     string
	ShowAll  bool
}

// handleSchedule handles GET /employee/schedule and GET /manager/schedule.
// Employees see their own shifts, managers see everyone's.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	var notice *flash.Message
	start, err := calendar.ParseStart(r.URL.Query().Get("start"), s.now())
	if err != nil {
		notice = &flash.Message{Level: flash.LevelError, Message: err.Error()}
	}

	query := projections.ShiftCalendarQuery{Start: start}
	if user.Role != account.RoleManager {
		query.EmployeeID = user.UserID
	}
	cal, err := projections.QueryShiftCalendar(r.Context(), query, projections.ShiftCalendarDeps{Shifts: s.stores.Shifts})
	if err != nil {
		internalError(w, r, err)
		return
	}

	s.render(w, r, "schedule.html", "Two-Week Schedule", scheduleData{
		Calendar: cal,
		Prev:     start.AddDate(0, 0, -calendar.WindowDays).Format(calendar.DateLayout),
		Next:     start.AddDate(0, 0, calendar.WindowDays).Format(calendar.DateLayout),
		ShowAll:  query.EmployeeID == "",
	}, notice)
}

// handleRequestSwitchForm handles GET /employee/request-switch
func (s *Server) handleRequestSwitchForm(w http.ResponseWriter, r *http.Request) {
	result, err := s.employeeDashboard(r)
	if err != nil {
		internalError(w, r, err)
		return
	}
	s.render(w, r, "request_switch.html", "Request a Shift Switch", result, nil)
}

// handleRequestCalloutForm handles GET /employee/request-callout
func (s *Server) handleRequestCalloutForm(w http.ResponseWriter, r *http.Request) {
	result, err := s.employeeDashboard(r)
	if err != nil {
		internalError(w, r, err)
		return
	}
	s.render(w, r, "request_callout.html", "Submit a Call-Out", result, nil)
}

// handleSubmitSwitch handles POST /employee/request-switch
func (s *Server) handleSubmitSwitch(w http.ResponseWriter, r *http.Request) {
	s.submitRequest(w, r, request.TypeSwitch, "/employee/request-switch", "Shift switch request submitted.")
}

// handleSubmitCallout handles POST /employee/request-callout
func (s *Server) handleSubmitCallout(w http.ResponseWriter, r *http.Request) {
	s.submitRequest(w, r, request.TypeCallout, "/employee/request-callout", "Call-out request submitted.")
}

func (s *Server) submitRequest(w http.ResponseWriter, r *http.Request, requestType, back, success string) {
	if !s.parseForm(w, r, back) {
		return
	}

	input := orchestrators.SubmitRequestInput{
		Type:        requestType,
		RequesterID: currentUser(r).UserID,
		ShiftID:     r.FormValue("shift_id"),
		Reason:      r.FormValue("reason"),
	}
	if requestType == request.TypeSwitch {
		input.RequestedEmployeeID = r.FormValue("requested_employee_id")
	}

	req, err := orchestrators.ExecuteSubmitRequest(r.Context(), input, orchestrators.SubmitRequestDeps{
		InTx:       s.submitTx,
		GenerateID: s.newID,
		Now:        s.now,
	})
	if err != nil {
		s.fail(w, r, err, back)
		return
	}

	s.metrics.RequestSubmitted(req.Type)
	s.succeed(w, r, "/employee", success)
}
