package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voxlive/vox-backend/internal/auth"
	"github.com/voxlive/vox-backend/internal/hierarchy"
	"github.com/voxlive/vox-backend/internal/models"
	"github.com/voxlive/vox-backend/internal/store"
)

type createGroupRequest struct {
	Name   string  `json:"name"`
	Parent *string `json:"parent"`
}

func (a *API) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		a.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if req.Parent != nil {
		if _, err := a.store.GroupByID(r.Context(), *req.Parent); err != nil {
			a.writeError(w, http.StatusNotFound, "parent group not found")
			return
		}
	}

	group := models.Group{
		Name:     req.Name,
		OwnerID:  auth.UserID(r.Context()),
		ParentID: req.Parent,
	}
	if err := a.store.CreateGroup(r.Context(), &group); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not create group")
		return
	}
	a.writeJSON(w, http.StatusCreated, group)
}

func (a *API) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := a.store.GroupByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusNotFound, "group not found")
		return
	}
	a.writeJSON(w, http.StatusOK, group)
}

func (a *API) listRootGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.store.RootGroupsByOwner(r.Context(), auth.UserID(r.Context()), pageParam(r))
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not list groups")
		return
	}
	a.writeJSON(w, http.StatusOK, emptyNotNull(groups))
}

func (a *API) listSubgroups(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.store.GroupByID(r.Context(), id); err != nil {
		a.writeError(w, http.StatusNotFound, "group not found")
		return
	}
	groups, err := a.store.Subgroups(r.Context(), id, pageParam(r))
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not list subgroups")
		return
	}
	a.writeJSON(w, http.StatusOK, emptyNotNull(groups))
}

func (a *API) leafGroups(w http.ResponseWriter, r *http.Request) {
	a.writeViews(w, r, a.resolver.LeafGroups)
}

func (a *API) groupsWithoutParticipants(w http.ResponseWriter, r *http.Request) {
	a.writeViews(w, r, a.resolver.GroupsWithoutParticipants)
}

func (a *API) groupsWithParticipants(w http.ResponseWriter, r *http.Request) {
	a.writeViews(w, r, a.resolver.GroupsWithParticipants)
}

func (a *API) writeViews(w http.ResponseWriter, r *http.Request,
	query func(ctx context.Context, ownerID string) ([]hierarchy.View, error)) {
	views, err := query(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not resolve groups")
		return
	}
	a.writeJSON(w, http.StatusOK, emptyNotNull(views))
}

func (a *API) groupResult(w http.ResponseWriter, r *http.Request) {
	result, err := a.tally.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "group not found")
			return
		}
		a.writeError(w, http.StatusInternalServerError, "could not compute result")
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

type updateGroupRequest struct {
	Name   string  `json:"name"`
	Parent *string `json:"parent"`
}

func (a *API) updateGroup(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	id := chi.URLParam(r, "id")
	group, err := a.store.GroupByID(r.Context(), id)
	if err != nil {
		a.writeError(w, http.StatusNotFound, "group not found")
		return
	}

	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Parent != nil && (group.ParentID == nil || *group.ParentID != *req.Parent) {
		if _, err := a.store.GroupByID(r.Context(), *req.Parent); err != nil {
			a.writeError(w, http.StatusNotFound, "parent group not found")
			return
		}
		fields["parent_id"] = *req.Parent
	}

	if len(fields) > 0 {
		if err := a.store.UpdateGroup(r.Context(), id, fields); err != nil {
			a.writeError(w, http.StatusInternalServerError, "could not update group")
			return
		}
	}
	a.writeMessage(w, http.StatusOK, "group updated")
}

func (a *API) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.store.GroupByID(r.Context(), id); err != nil {
		a.writeError(w, http.StatusNotFound, "group not found")
		return
	}
	if err := a.store.DeleteGroup(r.Context(), id); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not delete group")
		return
	}
	a.writeMessage(w, http.StatusOK, "group deleted")
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// emptyNotNull keeps empty listings as [] rather than null in JSON.
func emptyNotNull[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
