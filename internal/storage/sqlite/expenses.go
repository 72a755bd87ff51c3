package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/models"
)

type expenseRow struct {
	ID           int64           `db:"id"`
	GroupID      int64           `db:"group_id"`
	PayerID      int64           `db:"payer_id"`
	Amount       decimal.Decimal `db:"amount"`
	Description  string          `db:"description"`
	IsSettlement bool            `db:"is_settlement"`
	CreatedAt    int64           `db:"created_at"`
}

type splitRow struct {
	ExpenseID int64           `db:"expense_id"`
	UserID    int64           `db:"user_id"`
	Amount    decimal.Decimal `db:"amount"`
}

// CreateExpense persists an expense and its splits atomically.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var memberIDs []int64
		if err := tx.SelectContext(ctx, &memberIDs,
			`SELECT user_id FROM memberships WHERE group_id = ?`, expense.GroupID,
		); err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}
		members := make(map[int64]bool, len(memberIDs))
		for _, id := range memberIDs {
			members[id] = true
		}

		if !members[expense.PayerID] {
			return apperrors.Validation("payer %d is not a member of group %d", expense.PayerID, expense.GroupID)
		}
		for _, split := range expense.Splits {
			if !members[split.UserID] {
				return apperrors.Validation("user %d is not a member of group %d", split.UserID, expense.GroupID)
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (group_id, payer_id, amount, description, is_settlement, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			expense.GroupID, expense.PayerID, expense.Amount.StringFixed(2), expense.Description,
			boolToInt(expense.IsSettlement), toMillis(expense.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read expense id: %w", err)
		}

		for _, split := range expense.Splits {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO splits (expense_id, user_id, amount) VALUES (?, ?, ?)`,
				id, split.UserID, split.Amount.StringFixed(2),
			); err != nil {
				if isUniqueViolation(err) {
					return apperrors.Validation("user %d appears more than once in splits", split.UserID)
				}
				return fmt.Errorf("failed to insert split: %w", err)
			}
		}

		expense.ID = id
		return nil
	})
}

// ListExpenses returns a group's expenses with splits, newest first.
// Both queries run in one transaction so a concurrent insert is either fully
// visible or not at all.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	var (
		expenseRows []expenseRow
		splitRows   []splitRow
	)
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &expenseRows,
			`SELECT id, group_id, payer_id, amount, description, is_settlement, created_at
			 FROM expenses WHERE group_id = ?
			 ORDER BY created_at DESC, id DESC`,
			groupID,
		); err != nil {
			return fmt.Errorf("failed to list expenses: %w", err)
		}
		if err := tx.SelectContext(ctx, &splitRows,
			`SELECT s.expense_id, s.user_id, s.amount
			 FROM splits s JOIN expenses e ON e.id = s.expense_id
			 WHERE e.group_id = ?
			 ORDER BY s.expense_id, s.user_id`,
			groupID,
		); err != nil {
			return fmt.Errorf("failed to list splits: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	splitsByExpense := make(map[int64][]models.Split, len(expenseRows))
	for _, r := range splitRows {
		splitsByExpense[r.ExpenseID] = append(splitsByExpense[r.ExpenseID], models.Split{
			UserID: r.UserID,
			Amount: r.Amount,
		})
	}

	expenses := make([]*models.Expense, len(expenseRows))
	for i, r := range expenseRows {
		splits := splitsByExpense[r.ID]
		if splits == nil {
			splits = []models.Split{}
		}
		expenses[i] = &models.Expense{
			ID:           r.ID,
			GroupID:      r.GroupID,
			PayerID:      r.PayerID,
			Amount:       r.Amount,
			Description:  r.Description,
			IsSettlement: r.IsSettlement,
			CreatedAt:    fromMillis(r.CreatedAt),
			Splits:       splits,
		}
	}
	return expenses, nil
}
