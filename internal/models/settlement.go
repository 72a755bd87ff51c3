package models

import "github.com/shopspring/decimal"

// SettlementTransaction is one payment in a simplified settle-up plan.
// It is derived on demand and is not persisted unless recorded back as a
// settlement Expense.
type SettlementTransaction struct {
	// From is the user who pays (a net debtor).
	From int64 `json:"from"`

	// To is the user who receives (a net creditor).
	To int64 `json:"to"`

	Amount decimal.Decimal `json:"amount"`

	FromUsername string `json:"from_username"`
	ToUsername   string `json:"to_username"`
}

// MemberBalance summarizes one member's position in a group.
type MemberBalance struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`

	// TotalPaid is the sum of everything this member paid for others and themselves.
	TotalPaid decimal.Decimal `json:"total_paid"`

	// TotalOwed is the sum of this member's split shares.
	TotalOwed decimal.Decimal `json:"total_owed"`

	// Net is positive when the member is owed money, negative when they owe.
	Net decimal.Decimal `json:"net"`
}
