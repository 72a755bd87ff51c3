package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const (
	// DefaultChatHistory is how many messages History returns.
	DefaultChatHistory = 100

	// MaxChatMessageLength is the longest message body accepted.
	MaxChatMessageLength = 2000
)

// ChatService serves group chat history. Live delivery is handled elsewhere.
type ChatService struct {
	store   storage.Store
	groups  *GroupService
	history int
}

// NewChatService creates a ChatService returning up to history messages per call.
func NewChatService(store storage.Store, groups *GroupService, history int) *ChatService {
	if history <= 0 {
		history = DefaultChatHistory
	}
	return &ChatService{store: store, groups: groups, history: history}
}

// History returns the latest messages of a group, oldest first.
func (s *ChatService) History(ctx context.Context, callerID, groupID int64) ([]*models.ChatMessage, error) {
	if err := s.groups.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	messages, err := s.store.ListChatMessages(ctx, groupID, s.history)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*models.ChatMessage{}
	}
	return messages, nil
}

// Post appends a message to a group's history.
func (s *ChatService) Post(ctx context.Context, callerID, groupID int64, body string) (*models.ChatMessage, error) {
	if err := s.groups.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.Validation("message body is required")
	}
	if len(body) > MaxChatMessageLength {
		return nil, apperrors.Validation("message must be at most %d characters", MaxChatMessageLength)
	}

	user, err := s.store.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{GroupID: groupID, UserID: callerID, Username: user.Username, Body: body}
	if err := s.store.CreateChatMessage(ctx, msg); err != nil {
		return nil, err
	}

	slog.Debug("Chat message posted", "group_id", groupID, "user_id", callerID, "message_id", msg.ID)
	return msg, nil
}
