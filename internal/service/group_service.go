package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// DefaultJoinCodeAttempts bounds retries when a generated join code is already taken.
const DefaultJoinCodeAttempts = 10

// MaxGroupNameLength is the longest group name accepted.
const MaxGroupNameLength = 100

// GroupService manages groups and memberships.
type GroupService struct {
	store    storage.GroupStore
	newCode  CodeGenerator
	attempts int
	metrics  *metrics.Metrics
}

// GroupOption customizes a GroupService.
type GroupOption func(*GroupService)

// WithCodeGenerator replaces the random join code generator.
func WithCodeGenerator(gen CodeGenerator) GroupOption {
	return func(s *GroupService) { s.newCode = gen }
}

// WithJoinCodeAttempts sets how many codes CreateGroup tries before giving up.
func WithJoinCodeAttempts(n int) GroupOption {
	return func(s *GroupService) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithGroupMetrics records join code collisions.
func WithGroupMetrics(m *metrics.Metrics) GroupOption {
	return func(s *GroupService) { s.metrics = m }
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.GroupStore, opts ...GroupOption) *GroupService {
	s := &GroupService{
		store:    store,
		newCode:  RandomJoinCode,
		attempts: DefaultJoinCodeAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGroup creates a group owned by ownerID with a fresh join code.
// Code collisions are retried transparently; only exhausting every attempt
// surfaces as ErrConflict.
func (s *GroupService) CreateGroup(ctx context.Context, ownerID int64, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("group name is required")
	}
	if len(name) > MaxGroupNameLength {
		return nil, apperrors.Validation("group name must be at most %d characters", MaxGroupNameLength)
	}

	slog.Info("CreateGroup request received", "owner_id", ownerID, "name", name)

	for attempt := 1; attempt <= s.attempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}

		group := &models.Group{Name: name, JoinCode: code, CreatedBy: ownerID}
		err = s.store.CreateGroup(ctx, group)
		if err == nil {
			slog.Info("Group created", "group_id", group.ID, "attempt", attempt)
			return group, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			slog.Error("CreateGroup failed", "error", err)
			return nil, err
		}

		s.metrics.JoinCodeCollision()
		slog.Debug("Join code collision, retrying", "attempt", attempt)
	}

	slog.Error("CreateGroup exhausted join codes", "attempts", s.attempts)
	return nil, apperrors.Conflict("could not allocate a unique join code after %d attempts", s.attempts)
}

// JoinGroup adds userID to the group identified by code.
// Joining a group twice is not an error.
func (s *GroupService) JoinGroup(ctx context.Context, userID int64, code string) (*models.Group, *models.Membership, error) {
	code = normalizeJoinCode(code)
	if code == "" {
		return nil, nil, apperrors.Validation("join code is required")
	}

	group, err := s.store.GetGroupByJoinCode(ctx, code)
	if err != nil {
		slog.Warn("JoinGroup: unknown code", "user_id", userID, "error", err)
		return nil, nil, err
	}

	membership, err := s.store.AddMember(ctx, group.ID, userID)
	if err != nil {
		slog.Error("JoinGroup failed", "group_id", group.ID, "user_id", userID, "error", err)
		return nil, nil, err
	}

	slog.Info("User joined group", "group_id", group.ID, "user_id", userID)
	return group, membership, nil
}

// ListGroups returns the groups userID belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID int64) ([]*models.Group, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return groups, nil
}

// GetGroup returns a group with its members, visible only to members.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID int64) (*models.Group, error) {
	if err := s.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}

// RequireMember returns nil when userID belongs to groupID, ErrNotFound when the
// group does not exist and ErrForbidden otherwise.
func (s *GroupService) RequireMember(ctx context.Context, groupID, userID int64) error {
	ok, err := s.store.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return err
	}
	return apperrors.Forbidden("you must be a member of this group")
}

// MemberIDs returns the user IDs of a group's members in ascending order.
func (s *GroupService) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}
