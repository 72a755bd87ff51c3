package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mmynk/splitledger/internal/apperrors"
	"github.com/mmynk/splitledger/internal/models"
)

type groupRow struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	JoinCode    string `db:"join_code"`
	CreatedBy   int64  `db:"created_by"`
	CreatedAt   int64  `db:"created_at"`
	MemberCount int    `db:"member_count"`
}

func (r groupRow) toModel() *models.Group {
	return &models.Group{
		ID:          r.ID,
		Name:        r.Name,
		JoinCode:    r.JoinCode,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   fromMillis(r.CreatedAt),
		MemberCount: r.MemberCount,
	}
}

const groupSelect = `
	SELECT g.id, g.name, g.join_code, g.created_by, g.created_at,
	       (SELECT COUNT(*) FROM memberships m WHERE m.group_id = g.id) AS member_count
	FROM groups g`

// CreateGroup inserts a group and its creator's membership in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO groups (name, join_code, created_by, created_at) VALUES (?, ?, ?, ?)`,
			group.Name, group.JoinCode, group.CreatedBy, toMillis(group.CreatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.Conflict("join code %s already in use", group.JoinCode)
			}
			return fmt.Errorf("failed to insert group: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read group id: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO memberships (group_id, user_id, joined_at) VALUES (?, ?, ?)`,
			id, group.CreatedBy, toMillis(group.CreatedAt),
		); err != nil {
			return fmt.Errorf("failed to insert owner membership: %w", err)
		}

		group.ID = id
		group.MemberCount = 1
		return nil
	})
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	var row groupRow
	err := s.db.GetContext(ctx, &row, groupSelect+` WHERE g.id = ?`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("group %d not found", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group := row.toModel()
	members, err := s.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return group, nil
}

// GetGroupByJoinCode retrieves a group by its join code.
func (s *SQLiteStore) GetGroupByJoinCode(ctx context.Context, code string) (*models.Group, error) {
	var row groupRow
	err := s.db.GetContext(ctx, &row, groupSelect+` WHERE g.join_code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("no group with join code %s", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by join code: %w", err)
	}
	return row.toModel(), nil
}

// ListGroupsForUser retrieves the groups a user belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID int64) ([]*models.Group, error) {
	var rows []groupRow
	if err := s.db.SelectContext(ctx, &rows,
		groupSelect+`
		JOIN memberships mine ON mine.group_id = g.id AND mine.user_id = ?
		ORDER BY g.created_at DESC, g.id DESC`,
		userID,
	); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	groups := make([]*models.Group, len(rows))
	for i, r := range rows {
		groups[i] = r.toModel()
	}
	return groups, nil
}

type membershipRow struct {
	GroupID  int64 `db:"group_id"`
	UserID   int64 `db:"user_id"`
	JoinedAt int64 `db:"joined_at"`
}

// AddMember inserts a membership unless it already exists.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID int64) (*models.Membership, error) {
	var row membershipRow
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO memberships (group_id, user_id, joined_at) VALUES (?, ?, ?)
			 ON CONFLICT (group_id, user_id) DO NOTHING`,
			groupID, userID, toMillis(time.Now().UTC()),
		); err != nil {
			return fmt.Errorf("failed to insert membership: %w", err)
		}
		return tx.GetContext(ctx, &row,
			`SELECT group_id, user_id, joined_at FROM memberships WHERE group_id = ? AND user_id = ?`,
			groupID, userID,
		)
	})
	if err != nil {
		return nil, err
	}

	return &models.Membership{
		GroupID:  row.GroupID,
		UserID:   row.UserID,
		JoinedAt: fromMillis(row.JoinedAt),
	}, nil
}

// IsMember reports whether userID belongs to groupID.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists int
	err := s.db.GetContext(ctx, &exists,
		`SELECT 1 FROM memberships WHERE group_id = ? AND user_id = ?`, groupID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

type memberRow struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	JoinedAt int64  `db:"joined_at"`
}

// ListMembers returns a group's members ordered by user ID.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID int64) ([]models.Member, error) {
	var rows []memberRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT m.user_id, u.username, u.email, m.joined_at
		 FROM memberships m JOIN users u ON u.id = m.user_id
		 WHERE m.group_id = ?
		 ORDER BY m.user_id`,
		groupID,
	); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]models.Member, len(rows))
	for i, r := range rows {
		members[i] = models.Member{
			UserID:   r.UserID,
			Username: r.Username,
			Email:    r.Email,
			JoinedAt: fromMillis(r.JoinedAt),
		}
	}
	return members, nil
}
