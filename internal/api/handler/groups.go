package handler

import (
	"net/http"
)

// CreateGroupRequest is the body of POST /api/create-group.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// CreateGroup creates a group owned by the caller.
// POST /api/create-group
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req CreateGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), userID, req.Name)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]any{
		"id":        group.ID,
		"name":      group.Name,
		"join_code": group.JoinCode,
	})
}

// JoinGroupRequest is the body of POST /api/join-group.
type JoinGroupRequest struct {
	Code string `json:"code"`
}

// JoinGroup adds the caller to the group with the given join code.
// POST /api/join-group
func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req JoinGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	_, membership, err := h.groups.JoinGroup(r.Context(), userID, req.Code)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, membership)
}

// ListGroups returns the caller's groups.
// GET /api/groups
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	groups, err := h.groups.ListGroups(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, groups)
}

// GetGroup returns a group with its members.
// GET /api/groups/{id}
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	groupID, err := pathID(r, "id")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	group, err := h.groups.GetGroup(r.Context(), userID, groupID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, group)
}
