package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an amount paid by one member and shared by some or all members of a group.
// Expenses are immutable once created.
type Expense struct {
	ID          int64           `json:"id"`
	GroupID     int64           `json:"group_id"`
	PayerID     int64           `json:"payer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`

	// IsSettlement marks a payment that pays down existing debt rather than a shared cost.
	// A settlement always has exactly one split covering the full amount.
	IsSettlement bool `json:"is_settlement"`

	CreatedAt time.Time `json:"created_at"`

	Splits []Split `json:"splits"`
}

// Split is the portion of an expense owed by one member.
// A split whose UserID equals the expense payer is the payer's own share.
type Split struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}
