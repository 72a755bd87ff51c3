package handler

import (
	"net/http"

	"github.com/mmynk/splitledger/internal/service"
)

// SignupRequest is the body of POST /api/signup.
// The capitalized ConfirmPassword key sent by older clients is accepted too.
type SignupRequest struct {
	Username              string `json:"username"`
	Email                 string `json:"email"`
	Password              string `json:"password"`
	ConfirmPassword       string `json:"confirm_password"`
	LegacyConfirmPassword string `json:"ConfirmPassword"`
}

// Signup handles account creation.
// POST /api/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	confirm := req.ConfirmPassword
	if confirm == "" {
		confirm = req.LegacyConfirmPassword
	}

	token, user, err := h.auth.Signup(r.Context(), service.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    token,
	})
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Dashboard returns the caller's profile and groups.
// GET /api/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	groups, err := h.groups.ListGroups(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"groups":   groups,
	})
}
