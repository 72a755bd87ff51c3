package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

// testEnv wires every service against a fresh SQLite database.
type testEnv struct {
	store  *sqlite.SQLiteStore
	groups *GroupService
	ledger *LedgerService
	chat   *ChatService
}

func setupTestEnv(t *testing.T, opts ...GroupOption) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	groups := NewGroupService(store, opts...)
	return &testEnv{
		store:  store,
		groups: groups,
		ledger: NewLedgerService(store, groups, nil),
		chat:   NewChatService(store, groups, 0),
	}
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := models.NewUser(name, name+"@example.com", "hash")
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return u
}

// group creates a group owned by the first user and joins the rest.
func (e *testEnv) group(t *testing.T, name string, members ...*models.User) *models.Group {
	t.Helper()
	ctx := context.Background()
	g, err := e.groups.CreateGroup(ctx, members[0].ID, name)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, m := range members[1:] {
		if _, _, err := e.groups.JoinGroup(ctx, m.ID, g.JoinCode); err != nil {
			t.Fatalf("JoinGroup(%s) failed: %v", m.Username, err)
		}
	}
	return g
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func expectErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
