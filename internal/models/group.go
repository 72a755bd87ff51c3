package models

import "time"

// Group is a set of members who share expenses.
type Group struct {
	// ID is the unique identifier for the group.
	ID int64 `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// JoinCode lets other users join without an invitation.
	// Generated at creation and stable for the group's lifetime.
	JoinCode string `json:"join_code"`

	// CreatedBy is the user who created the group (its first member).
	CreatedBy int64 `json:"created_by"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"created_at"`

	// MemberCount is filled by list queries.
	MemberCount int `json:"member_count"`

	// Members is filled when a single group is loaded.
	Members []Member `json:"members,omitempty"`
}

// Membership links a user to a group. There is no removal.
type Membership struct {
	GroupID  int64     `json:"group_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// Member is a membership joined with the user's public profile.
type Member struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}
