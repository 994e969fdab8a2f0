package web

import (
	"net/http"

	techniqueStore "dojo/internal/adapters/storage/technique"
	"dojo/internal/application/orchestrators"
)

// handleTechniques handles GET /techniques
func (s *Server) handleTechniques(w http.ResponseWriter, r *http.Request) {
	list, err := s.stores.Techniques.List(r.Context(), techniqueStore.ListFilter{})
	if err != nil {
		internalError(w, r, err)
		return
	}
	s.render(w, r, "techniques.html", "Techniques", list, nil)
}

// handleCreateTechnique handles POST /techniques
func (s *Server) handleCreateTechnique(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, "/techniques") {
		return
	}
	_, err := orchestrators.ExecuteCreateTechnique(r.Context(), orchestrators.CreateTechniqueInput{
		Name:        r.FormValue("technique_name"),
		Description: r.FormValue("description"),
		CreatedBy:   currentUser(r).UserID,
	}, orchestrators.CreateTechniqueDeps{
		Techniques: s.stores.Techniques,
		GenerateID: s.newID,
		Now:        s.now,
	})
	if err != nil {
		s.fail(w, r, err, "/techniques")
		return
	}
	s.succeed(w, r, "/techniques", "Technique added.")
}

// handleUpdateTechnique handles POST /manager/techniques/{id}/edit
func (s *Server) handleUpdateTechnique(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r, "/techniques") {
		return
	}
	_, err := orchestrators.ExecuteUpdateTechnique(r.Context(), orchestrators.UpdateTechniqueInput{
		ID:          r.PathValue("id"),
		Name:        r.FormValue("technique_name"),
		Description: r.FormValue("description"),
		Active:      r.FormValue("is_active") == "on",
	}, orchestrators.UpdateTechniqueDeps{Techniques: s.stores.Techniques})
	if err != nil {
		s.fail(w, r, err, "/techniques")
		return
	}
	s.succeed(w, r, "/techniques", "Technique updated.")
}

// handleDeleteTechnique handles POST /manager/techniques/{id}/delete
func (s *Server) handleDeleteTechnique(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteTechnique(r.Context(), r.PathValue("id"), orchestrators.DeleteTechniqueDeps{
		InTx: s.deleteTechniqueTx,
	})
	if err != nil {
		s.fail(w, r, err, "/techniques")
		return
	}
	s.succeed(w, r, "/techniques", "Technique deleted.")
}
