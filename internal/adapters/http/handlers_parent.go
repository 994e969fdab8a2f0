package web

import (
	"net/http"

	"dojo/internal/adapters/http/flash"
	"dojo/internal/application/projections"
	"dojo/internal/domain/calendar"
)

// parentDashboardData feeds parent_dashboard.html.
type parentDashboardData struct {
	projections.ParentDashboardResult
	Prev string
	Next string
}

// handleParentDashboard handles GET /parent
func (s *Server) handleParentDashboard(w http.ResponseWriter, r *http.Request) {
	var notice *flash.Message
	start, err := calendar.ParseStart(r.URL.Query().Get("start"), s.now())
	if err != nil {
		notice = &flash.Message{Level: flash.LevelError, Message: err.Error()}
	}

	result, err := projections.QueryParentDashboard(r.Context(), projections.ParentDashboardQuery{
		ParentID: currentUser(r).UserID,
		Start:    start,
	}, projections.ParentDashboardDeps{
		Children: s.stores.Children,
		Progress: s.stores.Progress,
		Notes:    s.stores.Notes,
		Classes:  s.stores.Classes,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	s.render(w, r, "parent_dashboard.html", "Parent Dashboard", parentDashboardData{
		ParentDashboardResult: result,
		Prev:                  start.AddDate(0, 0, -calendar.WindowDays).Format(calendar.DateLayout),
		Next:                  start.AddDate(0, 0, calendar.WindowDays).Format(calendar.DateLayout),
	}, notice)
}
