package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/moneybalancer/internal/models"
	"github.com/mmynk/moneybalancer/internal/storage"
)

// GroupService manages groups and their memberships. It is the
// authorization gate for every ledger operation: callers that are not
// members of a group uniformly get ErrGroupNotFound, whether or not the
// group exists.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group with the caller as its founding
// owner-member.
func (s *GroupService) CreateGroup(ctx context.Context, name string, owner *models.User) (*models.Group, error) {
	group := &models.Group{Name: name}
	if err := s.store.CreateGroup(ctx, group, owner.ID); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	group.Members = []models.GroupMember{
		{UserID: owner.ID, Nickname: owner.Nickname, IsOwner: true},
	}

	slog.Info("Group created", "group_id", group.ID, "owner_id", owner.ID)
	return group, nil
}

// GroupsOfUser lists all groups the user belongs to, members populated.
func (s *GroupService) GroupsOfUser(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.store.GroupsOfUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups of user: %w", err)
	}
	return groups, nil
}

// GroupOfUser retrieves one group, gated on the caller's membership.
func (s *GroupService) GroupOfUser(ctx context.Context, groupID, userID string) (*models.Group, error) {
	isMember, err := s.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrGroupNotFound
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// MembersOfGroup lists the group's members, gated on the caller's
// membership.
func (s *GroupService) MembersOfGroup(ctx context.Context, groupID, userID string) ([]models.GroupMember, error) {
	isMember, err := s.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrGroupNotFound
	}

	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	return members, nil
}

// JoinGroup adds the caller to a group as a non-owner member. Joining a
// group twice, or a group that does not exist, fails.
func (s *GroupService) JoinGroup(ctx context.Context, groupID, userID string) error {
	if err := s.store.AddGroupMember(ctx, groupID, userID, false); err != nil {
		return fmt.Errorf("failed to join group: %w", err)
	}
	slog.Info("User joined group", "group_id", groupID, "user_id", userID)
	return nil
}

// UserByID retrieves a user account. Returns nil when no such user exists.
func (s *GroupService) UserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// IsMember reports whether the user is a member of the group. Unknown
// groups report false, not an error.
func (s *GroupService) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	isMember, err := s.store.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return isMember, nil
}
