// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/moneybalancer/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Multi-row writes (transaction plus debts, group plus founding member) are
// all-or-nothing: a partially persisted unit must never be observable, even
// across concurrent service instances.
type Store interface {
	// CreateUser persists a new user. The ID and CreatedAt fields are
	// populated by the store if unset. Fails if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns nil, nil if not found.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by their unique username.
	// Returns nil, nil if not found.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateGroup persists a new group together with its founding
	// owner-member. The group's ID is populated by the store.
	CreateGroup(ctx context.Context, group *models.Group, ownerID string) error

	// GetGroup retrieves a group with its members. Returns nil, nil if the
	// group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GroupsOfUser retrieves all groups the user is a member of, members
	// populated.
	GroupsOfUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMember adds a user to a group. Fails if the pair already
	// exists or either side is missing.
	AddGroupMember(ctx context.Context, groupID, userID string, isOwner bool) error

	// GroupMembers lists the members of a group ordered by nickname then
	// user ID. An unknown group yields an empty list, not an error.
	GroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)

	// IsGroupMember reports whether the user is a member of the group.
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)

	// CreateTransaction persists a transaction and all its debts as a
	// single atomic unit. The ID and Timestamp fields are populated by the
	// store if unset.
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error

	// GetTransaction retrieves a transaction with its debts. Returns
	// nil, nil if not found.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	// ListTransactionsByGroup retrieves all transactions of a group with
	// their debts, newest first by timestamp.
	ListTransactionsByGroup(ctx context.Context, groupID string) ([]*models.Transaction, error)

	// DeleteTransaction removes a transaction and its debts if it belongs
	// to the given group. Returns false if no such transaction exists.
	DeleteTransaction(ctx context.Context, groupID, transactionID string) (bool, error)

	// UnequalDebtCounts returns, per debtor, how many debts in the group
	// carry the was-split-unequally flag. Debtors without any flagged debt
	// are omitted.
	UnequalDebtCounts(ctx context.Context, groupID string, debtorIDs []string) (map[string]int64, error)

	// DebtTotalsByCreditor sums the debts owed by debtorID in the group,
	// keyed by the owning transaction's creditor.
	DebtTotalsByCreditor(ctx context.Context, groupID, debtorID string) (map[string]int64, error)

	// CreditTotalsByDebtor sums the debts owed to creditorID in the group,
	// keyed by debtor.
	CreditTotalsByDebtor(ctx context.Context, groupID, creditorID string) (map[string]int64, error)

	// Close releases any resources held by the store.
	Close() error
}
