package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustUser(t *testing.T, store *SQLiteStore, name string) *models.User {
	t.Helper()
	user := models.NewUser(name, name+"@example.com", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return user
}

func mustGroup(t *testing.T, store *SQLiteStore, owner *models.User, code string) *models.Group {
	t.Helper()
	group := &models.Group{Name: "Trip " + code, JoinCode: code, CreatedBy: owner.ID}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, store, "alice")
	if alice.ID == 0 {
		t.Fatal("Expected user ID to be generated")
	}

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != alice.ID || got.Username != "alice" || got.PasswordHash != "hash" {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("other", "alice@example.com", "hash"))
		if !errors.Is(err, apperrors.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("missing user is not found", func(t *testing.T) {
		if _, err := store.GetUserByID(ctx, 9999); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("GetUserByID: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("GetUserByEmail: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetUsersByIDs skips unknown IDs", func(t *testing.T) {
		bob := mustUser(t, store, "bob")
		users, err := store.GetUsersByIDs(ctx, []int64{alice.ID, bob.ID, 4242})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("expected 2 users, got %d", len(users))
		}
		if users[bob.ID].Username != "bob" {
			t.Errorf("unexpected user for bob: %+v", users[bob.ID])
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	group := mustGroup(t, store, alice, "ABCD2345")

	t.Run("creator is a member", func(t *testing.T) {
		ok, err := store.IsMember(ctx, group.ID, alice.ID)
		if err != nil || !ok {
			t.Errorf("IsMember(alice) = %v, %v", ok, err)
		}
		ok, err = store.IsMember(ctx, group.ID, bob.ID)
		if err != nil || ok {
			t.Errorf("IsMember(bob) = %v, %v", ok, err)
		}
	})

	t.Run("duplicate join code is a conflict and leaves no row", func(t *testing.T) {
		dup := &models.Group{Name: "Dup", JoinCode: "ABCD2345", CreatedBy: bob.ID}
		if err := store.CreateGroup(ctx, dup); !errors.Is(err, apperrors.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		groups, err := store.ListGroupsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("expected bob to have no groups, got %d", len(groups))
		}
	})

	t.Run("AddMember is idempotent", func(t *testing.T) {
		first, err := store.AddMember(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		second, err := store.AddMember(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("second AddMember failed: %v", err)
		}
		if !first.JoinedAt.Equal(second.JoinedAt) {
			t.Errorf("JoinedAt changed: %v vs %v", first.JoinedAt, second.JoinedAt)
		}

		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 members, got %d", len(members))
		}
	})

	t.Run("GetGroup includes members", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.JoinCode != "ABCD2345" || got.MemberCount != 2 || len(got.Members) != 2 {
			t.Errorf("unexpected group: %+v", got)
		}
	})

	t.Run("GetGroupByJoinCode", func(t *testing.T) {
		got, err := store.GetGroupByJoinCode(ctx, "ABCD2345")
		if err != nil {
			t.Fatalf("GetGroupByJoinCode failed: %v", err)
		}
		if got.ID != group.ID {
			t.Errorf("got group %d, want %d", got.ID, group.ID)
		}
		if _, err := store.GetGroupByJoinCode(ctx, "NOPE0000"); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListGroupsForUser", func(t *testing.T) {
		mustGroup(t, store, bob, "WXYZ6789")
		groups, err := store.ListGroupsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		// Newest first.
		if groups[0].JoinCode != "WXYZ6789" {
			t.Errorf("expected newest group first, got %s", groups[0].JoinCode)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	carol := mustUser(t, store, "carol")
	group := mustGroup(t, store, alice, "EXP12345")
	if _, err := store.AddMember(ctx, group.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("CreateExpense stores splits", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			PayerID:     alice.ID,
			Amount:      dec("30"),
			Description: "Dinner",
			CreatedAt:   base,
			Splits: []models.Split{
				{UserID: alice.ID, Amount: dec("15")},
				{UserID: bob.ID, Amount: dec("15")},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == 0 {
			t.Error("Expected expense ID to be generated")
		}
	})

	t.Run("non-member split is rejected and nothing is stored", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			PayerID:     alice.ID,
			Amount:      dec("10"),
			Description: "Sneaky",
			Splits:      []models.Split{{UserID: carol.ID, Amount: dec("10")}},
		}
		if err := store.CreateExpense(ctx, expense); !errors.Is(err, apperrors.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Errorf("expected 1 expense, got %d", len(expenses))
		}
	})

	t.Run("non-member payer is rejected", func(t *testing.T) {
		expense := &models.Expense{
			GroupID: group.ID,
			PayerID: carol.ID,
			Amount:  dec("10"),
			Splits:  []models.Split{{UserID: alice.ID, Amount: dec("10")}},
		}
		if err := store.CreateExpense(ctx, expense); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("ListExpenses is reverse chronological with splits", func(t *testing.T) {
		settlement := &models.Expense{
			GroupID:      group.ID,
			PayerID:      bob.ID,
			Amount:       dec("15"),
			Description:  "Payment to alice",
			IsSettlement: true,
			CreatedAt:    base.Add(time.Hour),
			Splits:       []models.Split{{UserID: alice.ID, Amount: dec("15")}},
		}
		if err := store.CreateExpense(ctx, settlement); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(expenses))
		}
		if !expenses[0].IsSettlement || expenses[1].IsSettlement {
			t.Errorf("expected settlement first: %+v", expenses)
		}
		if expenses[1].Amount.StringFixed(2) != "30.00" {
			t.Errorf("amount = %s, want 30.00", expenses[1].Amount)
		}
		if len(expenses[1].Splits) != 2 {
			t.Errorf("expected 2 splits, got %d", len(expenses[1].Splits))
		}
		if !expenses[1].CreatedAt.Equal(base) {
			t.Errorf("created_at = %v, want %v", expenses[1].CreatedAt, base)
		}
	})

	t.Run("concurrent inserts are all stored", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- store.CreateExpense(ctx, &models.Expense{
					GroupID:     group.ID,
					PayerID:     bob.ID,
					Amount:      dec("1"),
					Description: fmt.Sprintf("coffee %d", i),
					Splits:      []models.Split{{UserID: alice.ID, Amount: dec("1")}},
				})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("concurrent CreateExpense failed: %v", err)
			}
		}

		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 22 {
			t.Errorf("expected 22 expenses, got %d", len(expenses))
		}
	})
}

func TestChatMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, store, "alice")
	group := mustGroup(t, store, alice, "CHAT2345")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		msg := &models.ChatMessage{
			GroupID:   group.ID,
			UserID:    alice.ID,
			Body:      fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.CreateChatMessage(ctx, msg); err != nil {
			t.Fatalf("CreateChatMessage failed: %v", err)
		}
	}

	messages, err := store.ListChatMessages(ctx, group.ID, 3)
	if err != nil {
		t.Fatalf("ListChatMessages failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	// The latest three, oldest first.
	for i, want := range []string{"message 2", "message 3", "message 4"} {
		if messages[i].Body != want {
			t.Errorf("messages[%d] = %q, want %q", i, messages[i].Body, want)
		}
		if messages[i].Username != "alice" {
			t.Errorf("messages[%d].Username = %q", i, messages[i].Username)
		}
	}
}
