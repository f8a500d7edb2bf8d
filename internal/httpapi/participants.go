package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voxlive/vox-backend/internal/models"
)

type createParticipantRequest struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

func (a *API) createParticipant(w http.ResponseWriter, r *http.Request) {
	var req createParticipantRequest
	if err := decode(r, &req); err != nil || req.Name == "" || req.Group == "" {
		a.writeError(w, http.StatusBadRequest, "name and group are required")
		return
	}

	if _, err := a.store.GroupByID(r.Context(), req.Group); err != nil {
		a.writeError(w, http.StatusNotFound, "group not found")
		return
	}

	participant := models.Participant{Name: req.Name, GroupID: req.Group}
	if err := a.store.CreateParticipant(r.Context(), &participant); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not register participant")
		return
	}
	a.writeJSON(w, http.StatusCreated, participant)
}

func (a *API) getParticipant(w http.ResponseWriter, r *http.Request) {
	participant, err := a.store.ParticipantByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusNotFound, "participant not found")
		return
	}
	a.writeJSON(w, http.StatusOK, participant)
}

func (a *API) listParticipants(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.store.GroupByID(r.Context(), id); err != nil {
		a.writeError(w, http.StatusNotFound, "group not found")
		return
	}
	participants, err := a.store.ParticipantsByGroupPaged(r.Context(), id, pageParam(r))
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not list participants")
		return
	}
	a.writeJSON(w, http.StatusOK, emptyNotNull(participants))
}

type updateParticipantRequest struct {
	Name string `json:"name"`
}

// updateParticipant only renames. Moving a participant between groups is
// not supported; the client creates a new participant instead.
func (a *API) updateParticipant(w http.ResponseWriter, r *http.Request) {
	var req updateParticipantRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		a.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := a.store.ParticipantByID(r.Context(), id); err != nil {
		a.writeError(w, http.StatusNotFound, "participant not found")
		return
	}
	if err := a.store.UpdateParticipant(r.Context(), id, map[string]any{"name": req.Name}); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not update participant")
		return
	}
	a.writeMessage(w, http.StatusOK, "participant updated")
}

func (a *API) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.store.ParticipantByID(r.Context(), id); err != nil {
		a.writeError(w, http.StatusNotFound, "participant not found")
		return
	}
	if err := a.store.DeleteParticipant(r.Context(), id); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not delete participant")
		return
	}
	a.writeMessage(w, http.StatusOK, "participant deleted")
}
