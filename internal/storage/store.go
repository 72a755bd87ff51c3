// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lookups that find nothing return an error wrapping apperrors.ErrNotFound;
// unique-constraint violations wrap apperrors.ErrConflict.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	ChatStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. user.ID is populated by the store.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
}

// GroupStore persists groups and memberships.
type GroupStore interface {
	// CreateGroup inserts the group and the creator's membership atomically.
	// group.ID is populated by the store. A join code collision returns ErrConflict
	// and leaves nothing behind, so the caller can retry with a new code.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID int64) (*models.Group, error)
	GetGroupByJoinCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsForUser returns the groups userID belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID int64) ([]*models.Group, error)

	// AddMember is idempotent: an existing membership is returned unchanged.
	AddMember(ctx context.Context, groupID, userID int64) (*models.Membership, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	ListMembers(ctx context.Context, groupID int64) ([]models.Member, error)
}

// ExpenseStore persists expenses and their splits.
type ExpenseStore interface {
	// CreateExpense stores the expense and its splits in one transaction.
	// The payer and every split user must be members of the group, checked inside
	// the same transaction; otherwise ErrValidation is returned.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns every expense of a group with its splits, newest first.
	// Expenses and splits are read from one consistent snapshot.
	ListExpenses(ctx context.Context, groupID int64) ([]*models.Expense, error)
}

// ChatStore persists group chat history.
type ChatStore interface {
	CreateChatMessage(ctx context.Context, msg *models.ChatMessage) error

	// ListChatMessages returns up to limit of the most recent messages, oldest first.
	ListChatMessages(ctx context.Context, groupID int64, limit int) ([]*models.ChatMessage, error)
}
