package handler

import "net/http"

// ChatHistory returns a group's recent chat messages, oldest first.
// GET /api/groups/{id}/websockets
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.groupRequest(w, r)
	if !ok {
		return
	}

	messages, err := h.chat.History(r.Context(), userID, groupID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, messages)
}

// PostMessageRequest is the body of POST /api/groups/{id}/messages.
type PostMessageRequest struct {
	Body string `json:"body"`
}

// PostMessage appends a chat message to a group.
// POST /api/groups/{id}/messages
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.groupRequest(w, r)
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	msg, err := h.chat.Post(r.Context(), userID, groupID, req.Body)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, msg)
}
