package service

import (
	"context"
	"strings"
	"testing"

	"github.com/mmynk/splitledger/internal/apperrors"
)

func TestChat(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")
	group := env.group(t, "Flat", alice, bob)

	empty, err := env.chat.History(ctx, alice.ID, group.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected an empty non-nil history, got %#v", empty)
	}

	for _, body := range []string{"hi", "  who paid for pizza? "} {
		if _, err := env.chat.Post(ctx, bob.ID, group.ID, body); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}

	history, err := env.chat.History(ctx, alice.ID, group.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Body != "hi" || history[1].Body != "who paid for pizza?" {
		t.Errorf("expected oldest first with trimmed bodies, got %q, %q", history[0].Body, history[1].Body)
	}
	if history[1].Username != "bob" {
		t.Errorf("expected username bob, got %q", history[1].Username)
	}

	t.Run("empty body", func(t *testing.T) {
		_, err := env.chat.Post(ctx, alice.ID, group.ID, "   ")
		expectErr(t, err, apperrors.ErrValidation)
	})

	t.Run("body too long", func(t *testing.T) {
		_, err := env.chat.Post(ctx, alice.ID, group.ID, strings.Repeat("a", MaxChatMessageLength+1))
		expectErr(t, err, apperrors.ErrValidation)
	})
}

func TestChatHistoryLimit(t *testing.T) {
	env := setupTestEnv(t)
	env.chat = NewChatService(env.store, env.groups, 3)
	ctx := context.Background()
	alice := env.user(t, "alice")
	group := env.group(t, "Solo", alice)

	for _, body := range []string{"1", "2", "3", "4", "5"} {
		if _, err := env.chat.Post(ctx, alice.ID, group.ID, body); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}

	history, err := env.chat.History(ctx, alice.ID, group.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 || history[0].Body != "3" || history[2].Body != "5" {
		t.Errorf("expected the latest 3 messages oldest first, got %+v", history)
	}
}
