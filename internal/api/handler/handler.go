// Package handler implements the JSON HTTP endpoints on top of the services.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
)

// DefaultTimeout bounds how long a single request may run.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handler serves every API endpoint.
type Handler struct {
	auth   *service.AuthService
	groups *service.GroupService
	ledger *service.LedgerService
	chat   *service.ChatService
	logger *slog.Logger
}

// New creates a new Handler.
func New(auth *service.AuthService, groups *service.GroupService, ledger *service.LedgerService, chat *service.ChatService, logger *slog.Logger) *Handler {
	return &Handler{
		auth:   auth,
		groups: groups,
		ledger: ledger,
		chat:   chat,
		logger: logger,
	}
}

// respondWithJSON sends payload as a JSON response.
func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps err to a status code and sends {"error": message}.
func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := StatusCode(err)
	message := apperrors.Message(err)
	if statusCode == http.StatusInternalServerError {
		h.logger.Error("Unhandled service error", "error", err)
		message = "Internal server error"
	}
	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// StatusCode returns the HTTP status for an error from the service layer.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("request body is required")
		}
		return apperrors.Validation("invalid request body: %v", err)
	}
	return nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid %s", name)
	}
	return id, nil
}

// caller returns the authenticated user ID placed in the context by middleware.RequireAuth.
func caller(r *http.Request) (int64, error) {
	id := middleware.GetUserID(r.Context())
	if id == 0 {
		return 0, fmt.Errorf("%w: authorization token required", apperrors.ErrUnauthorized)
	}
	return id, nil
}
