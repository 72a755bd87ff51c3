package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/service"
)

// SplitRequest is one user's share in a CreateExpenseRequest.
type SplitRequest struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateExpenseRequest is the body of POST /api/expenses.
// Amounts may be JSON numbers or strings.
type CreateExpenseRequest struct {
	GroupID     int64           `json:"group_id"`
	PayerID     int64           `json:"payer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Splits      []SplitRequest  `json:"splits"`
}

// CreateExpense records an expense in a group.
// POST /api/expenses
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req CreateExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	if req.GroupID <= 0 {
		h.respondWithError(w, apperrors.Validation("group_id is required"))
		return
	}

	splits := make([]models.Split, len(req.Splits))
	for i, s := range req.Splits {
		splits[i] = models.Split{UserID: s.UserID, Amount: s.Amount}
	}

	expense, err := h.ledger.CreateExpense(r.Context(), userID, service.CreateExpenseInput{
		GroupID:     req.GroupID,
		PayerID:     req.PayerID,
		Amount:      req.Amount,
		Description: req.Description,
		Splits:      splits,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, expense)
}

// ListExpenses returns a group's expenses, newest first.
// GET /api/groups/{id}/expenses
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.groupRequest(w, r)
	if !ok {
		return
	}

	expenses, err := h.ledger.ListExpenses(r.Context(), userID, groupID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, expenses)
}

// Activity returns a group's history rows, newest first.
// GET /api/groups/{id}/activity
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.groupRequest(w, r)
	if !ok {
		return
	}

	activity, err := h.ledger.ListActivity(r.Context(), userID, groupID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, activity)
}

// Balances returns every member's paid, owed and net amounts.
// GET /api/groups/{id}/balances
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.groupRequest(w, r)
	if !ok {
		return
	}

	balances, err := h.ledger.Balances(r.Context(), userID, groupID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, balances)
}

// Simplify returns the minimal settle-up plan for a group.
// An optional user_id query parameter keeps only that user's transactions.
// GET /api/groups/{id}/simplify
func (h *Handler) Simplify(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.groupRequest(w, r)
	if !ok {
		return
	}

	var filterUser int64
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.respondWithError(w, apperrors.Validation("invalid user_id"))
			return
		}
		filterUser = id
	}

	txns, err := h.ledger.Simplify(r.Context(), userID, groupID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if filterUser != 0 {
		txns = service.FilterTransactions(txns, filterUser)
	}

	h.respondWithJSON(w, http.StatusOK, txns)
}

// SettleRequest is the body of POST /api/groups/{id}/settle.
type SettleRequest struct {
	ToUserID    int64           `json:"to_user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Settle records a payment from the caller to another member.
// POST /api/groups/{id}/settle
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	userID, groupID, ok := h.groupRequest(w, r)
	if !ok {
		return
	}

	var req SettleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	if req.ToUserID <= 0 {
		h.respondWithError(w, apperrors.Validation("to_user_id is required"))
		return
	}

	expense, err := h.ledger.Settle(r.Context(), userID, groupID, req.ToUserID, req.Amount, req.Description)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, expense)
}

// groupRequest resolves the caller and the {id} path parameter, responding on failure.
func (h *Handler) groupRequest(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := caller(r)
	if err != nil {
		h.respondWithError(w, err)
		return 0, 0, false
	}
	groupID, err := pathID(r, "id")
	if err != nil {
		h.respondWithError(w, err)
		return 0, 0, false
	}
	return userID, groupID, true
}
