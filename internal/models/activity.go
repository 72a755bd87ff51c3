package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity is a display row for the group activity feed.
// It merges an expense with split-level detail and usernames.
type Activity struct {
	ExpenseID     int64  `json:"expense_id"`
	PayerID       int64  `json:"payer_id"`
	PayerUsername string `json:"payer_username"`

	// PayeeID is set only for settlements: the member who received the payment.
	PayeeID       *int64 `json:"payee_id"`
	PayeeUsername string `json:"payee_username,omitempty"`

	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	IsSettlement bool            `json:"is_settlement"`
	CreatedAt    time.Time       `json:"created_at"`

	Splits []ActivitySplit `json:"splits"`
}

// ActivitySplit is one member's share within an Activity row.
type ActivitySplit struct {
	UserID   int64           `json:"user_id"`
	Username string          `json:"username"`
	Amount   decimal.Decimal `json:"amount"`
}
