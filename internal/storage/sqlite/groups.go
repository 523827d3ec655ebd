package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/moneybalancer/internal/models"
)

// CreateGroup persists a new group and its founding owner-member in one
// transaction, so a group without any member is never observable.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, ownerID string) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name) VALUES (?, ?)",
		group.ID, group.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (user_id, group_id, is_owner) VALUES (?, ?, 1)",
		ownerID, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name)
	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Members, err = s.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return group, nil
}

// GroupsOfUser retrieves all groups the user belongs to, members populated.
func (s *SQLiteStore) GroupsOfUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = ?
		 ORDER BY g.name, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups of user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		group.Members, err = s.GroupMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// AddGroupMember adds a user to a group. The composite primary key rejects
// duplicate memberships.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID string, isOwner bool) error {
	owner := 0
	if isOwner {
		owner = 1
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO group_members (user_id, group_id, is_owner) VALUES (?, ?, ?)",
		userID, groupID, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}

	return nil
}

// GroupMembers lists the members of a group with their nicknames, ordered
// by nickname then user ID for deterministic output.
func (s *SQLiteStore) GroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.nickname, gm.is_owner FROM group_members gm
		 JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = ?
		 ORDER BY u.nickname, u.id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var member models.GroupMember
		var owner int
		if err := rows.Scan(&member.UserID, &member.Nickname, &owner); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		member.IsOwner = owner == 1
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// IsGroupMember reports whether the user is a member of the group.
func (s *SQLiteStore) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}

	return true, nil
}
