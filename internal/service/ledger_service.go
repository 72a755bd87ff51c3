package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// MaxDescriptionLength is the longest expense description accepted.
const MaxDescriptionLength = 255

// LedgerService records expenses and settlements and derives balances from them.
type LedgerService struct {
	store   storage.Store
	groups  *GroupService
	metrics *metrics.Metrics
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store storage.Store, groups *GroupService, m *metrics.Metrics) *LedgerService {
	return &LedgerService{store: store, groups: groups, metrics: m}
}

// CreateExpenseInput describes a new expense.
type CreateExpenseInput struct {
	GroupID int64

	// PayerID defaults to the caller when zero.
	PayerID int64

	Amount      decimal.Decimal
	Description string

	// Splits may be empty, in which case the amount is split equally among all members.
	Splits []models.Split
}

// CreateExpense validates and records an expense on behalf of callerID.
func (s *LedgerService) CreateExpense(ctx context.Context, callerID int64, in CreateExpenseInput) (*models.Expense, error) {
	slog.Info("CreateExpense request received",
		"group_id", in.GroupID,
		"caller_id", callerID,
		"amount", in.Amount.String(),
		"splits_count", len(in.Splits),
	)

	if err := s.groups.RequireMember(ctx, in.GroupID, callerID); err != nil {
		return nil, err
	}

	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	description, err := cleanDescription(in.Description)
	if err != nil {
		return nil, err
	}

	payerID := in.PayerID
	if payerID == 0 {
		payerID = callerID
	}

	var shares []calculator.Share
	if len(in.Splits) == 0 {
		memberIDs, err := s.groups.MemberIDs(ctx, in.GroupID)
		if err != nil {
			return nil, err
		}
		shares, err = calculator.EqualSplit(in.Amount, memberIDs)
		if err != nil {
			return nil, splitError(err)
		}
	} else {
		requested := make([]calculator.Share, len(in.Splits))
		for i, sp := range in.Splits {
			requested[i] = calculator.Share{UserID: sp.UserID, Amount: sp.Amount}
		}
		shares, err = calculator.NormalizeSplits(in.Amount, requested)
		if err != nil {
			return nil, splitError(err)
		}
	}

	expense := &models.Expense{
		GroupID:     in.GroupID,
		PayerID:     payerID,
		Amount:      in.Amount,
		Description: description,
		Splits:      toSplits(shares),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Warn("CreateExpense failed", "group_id", in.GroupID, "error", err)
		return nil, err
	}

	s.metrics.ExpenseCreated(false)
	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID)
	return expense, nil
}

// Settle records a payment from callerID to toUserID as a settlement expense.
// The payment has a single split for the recipient, which offsets what the caller owes.
func (s *LedgerService) Settle(ctx context.Context, callerID, groupID, toUserID int64, amount decimal.Decimal, description string) (*models.Expense, error) {
	slog.Info("Settle request received",
		"group_id", groupID,
		"from_user_id", callerID,
		"to_user_id", toUserID,
		"amount", amount.String(),
	)

	if err := s.groups.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	if toUserID == callerID {
		return nil, apperrors.Validation("cannot settle with yourself")
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	if strings.TrimSpace(description) == "" {
		recipient, err := s.store.GetUserByID(ctx, toUserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.Validation("user %d is not a member of group %d", toUserID, groupID)
			}
			return nil, err
		}
		description = "Payment to " + recipient.Username
	}
	description, err := cleanDescription(description)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:      groupID,
		PayerID:      callerID,
		Amount:       amount,
		Description:  description,
		IsSettlement: true,
		Splits:       []models.Split{{UserID: toUserID, Amount: amount}},
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Warn("Settle failed", "group_id", groupID, "error", err)
		return nil, err
	}

	s.metrics.ExpenseCreated(true)
	slog.Info("Settlement recorded", "expense_id", expense.ID, "group_id", groupID)
	return expense, nil
}

// ListExpenses returns a group's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, callerID, groupID int64) ([]*models.Expense, error) {
	if err := s.groups.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return expenses, nil
}

// ListActivity returns the group's history as display rows, newest first.
func (s *LedgerService) ListActivity(ctx context.Context, callerID, groupID int64) ([]models.Activity, error) {
	expenses, err := s.ListExpenses(ctx, callerID, groupID)
	if err != nil {
		return nil, err
	}

	users, err := s.store.GetUsersByIDs(ctx, involvedUsers(expenses))
	if err != nil {
		return nil, err
	}

	activity := make([]models.Activity, len(expenses))
	for i, e := range expenses {
		row := models.Activity{
			ExpenseID:     e.ID,
			PayerID:       e.PayerID,
			PayerUsername: username(users, e.PayerID),
			Amount:        e.Amount,
			Description:   e.Description,
			IsSettlement:  e.IsSettlement,
			CreatedAt:     e.CreatedAt,
			Splits:        make([]models.ActivitySplit, len(e.Splits)),
		}
		for j, sp := range e.Splits {
			row.Splits[j] = models.ActivitySplit{
				UserID:   sp.UserID,
				Username: username(users, sp.UserID),
				Amount:   sp.Amount,
			}
		}
		if e.IsSettlement && len(e.Splits) == 1 {
			payee := e.Splits[0].UserID
			row.PayeeID = &payee
			row.PayeeUsername = username(users, payee)
		}
		activity[i] = row
	}
	return activity, nil
}

// Balances returns every member's paid/owed/net position.
func (s *LedgerService) Balances(ctx context.Context, callerID, groupID int64) ([]models.MemberBalance, error) {
	if err := s.groups.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	memberIDs := make([]int64, len(members))
	names := make(map[int64]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.UserID
		names[m.UserID] = m.Username
	}

	totals := calculator.CalculateMemberTotals(toBalanceInput(expenses), memberIDs)
	balances := make([]models.MemberBalance, len(totals))
	for i, t := range totals {
		balances[i] = models.MemberBalance{
			UserID:    t.UserID,
			Username:  names[t.UserID],
			TotalPaid: t.TotalPaid,
			TotalOwed: t.TotalOwed,
			Net:       t.Net,
		}
	}
	return balances, nil
}

// Simplify computes the full minimal settle-up plan for a group.
// Filtering to one user's transactions is left to the caller.
func (s *LedgerService) Simplify(ctx context.Context, callerID, groupID int64) ([]models.SettlementTransaction, error) {
	slog.Info("Simplify request received", "group_id", groupID, "caller_id", callerID)

	if err := s.groups.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}

	nets := calculator.NetPositions(calculator.ComputeNetBalances(toBalanceInput(expenses)))
	txns := calculator.Simplify(nets)

	ids := make([]int64, 0, len(txns)*2)
	for _, t := range txns {
		ids = append(ids, t.From, t.To)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.SettlementTransaction, len(txns))
	for i, t := range txns {
		out[i] = models.SettlementTransaction{
			From:         t.From,
			To:           t.To,
			Amount:       t.Amount,
			FromUsername: username(users, t.From),
			ToUsername:   username(users, t.To),
		}
	}

	s.metrics.Simplified(len(out))
	slog.Info("Simplify successful",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"transactions_count", len(out),
	)
	return out, nil
}

// FilterTransactions keeps the transactions where userID pays or receives.
func FilterTransactions(txns []models.SettlementTransaction, userID int64) []models.SettlementTransaction {
	out := []models.SettlementTransaction{}
	for _, t := range txns {
		if t.From == userID || t.To == userID {
			out = append(out, t)
		}
	}
	return out
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.Validation("amount must be positive")
	}
	if !calculator.IsWholeCents(amount) {
		return apperrors.Validation("amount must have at most two decimal places")
	}
	if amount.GreaterThan(calculator.MaxAmount) {
		return apperrors.Validation("amount must be at most %s", calculator.MaxAmount.StringFixed(2))
	}
	return nil
}

func cleanDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", apperrors.Validation("description is required")
	}
	if len(description) > MaxDescriptionLength {
		return "", apperrors.Validation("description must be at most %d characters", MaxDescriptionLength)
	}
	return description, nil
}

func splitError(err error) error {
	if errors.Is(err, calculator.ErrInvalidSplit) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return err
}

func toSplits(shares []calculator.Share) []models.Split {
	splits := make([]models.Split, len(shares))
	for i, sh := range shares {
		splits[i] = models.Split{UserID: sh.UserID, Amount: sh.Amount}
	}
	return splits
}

func toBalanceInput(expenses []*models.Expense) []calculator.ExpenseForBalance {
	out := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Splits))
		for j, sp := range e.Splits {
			shares[j] = calculator.Share{UserID: sp.UserID, Amount: sp.Amount}
		}
		out[i] = calculator.ExpenseForBalance{PayerID: e.PayerID, Amount: e.Amount, Splits: shares}
	}
	return out
}

func involvedUsers(expenses []*models.Expense) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, e := range expenses {
		add(e.PayerID)
		for _, sp := range e.Splits {
			add(sp.UserID)
		}
	}
	return ids
}

func username(users map[int64]*models.User, id int64) string {
	if u, ok := users[id]; ok {
		return u.Username
	}
	return ""
}
