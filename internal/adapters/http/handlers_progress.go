package web

import (
	"net/http"

	"dojo/internal/application/orchestrators"
	"dojo/internal/application/projections"
	"dojo/internal/domain/account"
)

// progressPath returns the caller's progress screen.
func progressPath(role string) string {
	if role == account.RoleManager {
		return "/manager/progress"
	}
	return "/employee/progress"
}

// progressScreenData feeds progress_screen.html.
type progressScreenData struct {
	projections.StaffProgressResult
	Parents []account.User // manager only: parent choices for new children
	Action  string
}

// handleProgressScreen handles GET /employee/progress and GET /manager/progress
func (s *Server) handleProgressScreen(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	result, err := projections.QueryStaffProgress(r.Context(), projections.StaffProgressDeps{
		Children:   s.stores.Children,
		Techniques: s.stores.Techniques,
		Progress:   s.stores.Progress,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}

	data := progressScreenData{StaffProgressResult: result, Action: progressPath(user.Role)}
	if user.Role == account.RoleManager {
		if data.Parents, err = s.stores.Users.ListByRole(r.Context(), account.RoleParent); err != nil {
			internalError(w, r, err)
			return
		}
	}

	title := "Progress Screen for Staff"
	if user.Role == account.RoleManager {
		title = "Child Progress Screen (Manager)"
	}
	s.render(w, r, "progress_screen.html", title, data, nil)
}

// handleAssignTechnique handles POST /employee/progress and POST /manager/progress
func (s *Server) handleAssignTechnique(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	back := progressPath(user.Role)
	if !s.parseForm(w, r, back) {
		return
	}

	_, err := orchestrators.ExecuteAssignTechnique(r.Context(), orchestrators.AssignTechniqueInput{
		ChildID:     r.FormValue("child_id"),
		TechniqueID: r.FormValue("technique_id"),
		AssignedBy:  user.UserID,
		Completed:   r.FormValue("completed") == "on",
		Notes:       r.FormValue("notes"),
	}, orchestrators.AssignTechniqueDeps{
		Children:   s.stores.Children,
		Techniques: s.stores.Techniques,
		Progress:   s.stores.Progress,
		GenerateID: s.newID,
		Now:        s.now,
	})
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.succeed(w, r, back, "Progress record added.")
}

// handleToggleProgress handles POST /progress/{id}/toggle
func (s *Server) handleToggleProgress(w http.ResponseWriter, r *http.Request) {
	back := backTo(r, "/dashboard")
	_, err := orchestrators.ExecuteToggleProgress(r.Context(), r.PathValue("id"), orchestrators.ToggleProgressDeps{
		InTx: s.toggleTx,
		Now:  s.now,
	})
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.succeed(w, r, back, "Progress updated.")
}

// handleAddChild handles POST /children
func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	back := progressPath(currentUser(r).Role)
	if !s.parseForm(w, r, back) {
		return
	}
	_, err := orchestrators.ExecuteAddChild(r.Context(), orchestrators.AddChildInput{
		Name:         r.FormValue("child_name"),
		ParentUserID: r.FormValue("parent_user_id"),
	}, orchestrators.AddChildDeps{
		Users:      s.stores.Users,
		Children:   s.stores.Children,
		GenerateID: s.newID,
		Now:        s.now,
	})
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.succeed(w, r, back, "Child added.")
}

// handleAddParentNote handles POST /children/{id}/notes
func (s *Server) handleAddParentNote(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	back := progressPath(user.Role)
	if !s.parseForm(w, r, back) {
		return
	}
	_, err := orchestrators.ExecuteAddParentNote(r.Context(), orchestrators.AddParentNoteInput{
		ChildID:  r.PathValue("id"),
		AuthorID: user.UserID,
		Text:     r.FormValue("note_text"),
	}, orchestrators.AddParentNoteDeps{
		Children:   s.stores.Children,
		Notes:      s.stores.Notes,
		GenerateID: s.newID,
		Now:        s.now,
	})
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.succeed(w, r, back, "Note added.")
}
