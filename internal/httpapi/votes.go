package httpapi

import (
	"net/http"

	"github.com/voxlive/vox-backend/internal/models"
)

type createVoteRequest struct {
	Participant string `json:"participant"`
}

// createVote persists one ballot. The realtime vote-cast broadcast is the
// socket layer's business and is deliberately not coupled to this write:
// a client may see the event for a write that later failed, or miss it for
// one that succeeded.
func (a *API) createVote(w http.ResponseWriter, r *http.Request) {
	var req createVoteRequest
	if err := decode(r, &req); err != nil || req.Participant == "" {
		a.writeError(w, http.StatusBadRequest, "participant is required")
		return
	}

	if _, err := a.store.ParticipantByID(r.Context(), req.Participant); err != nil {
		a.writeError(w, http.StatusNotFound, "participant not found")
		return
	}

	vote := models.Vote{ParticipantID: req.Participant}
	if err := a.store.CreateVote(r.Context(), &vote); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not register vote")
		return
	}
	a.writeMessage(w, http.StatusCreated, "vote registered")
}
