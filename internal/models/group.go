package models

// Group represents a circle of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// Members are the current members of the group.
	Members []GroupMember `json:"members"`
}

// GroupMember represents one user's membership in a group.
type GroupMember struct {
	// UserID references the member's user account.
	UserID string `json:"id"`

	// Nickname is the member's display name, denormalized from the user.
	Nickname string `json:"nickname"`

	// IsOwner is true for the founding member of the group.
	IsOwner bool `json:"is_owner"`
}

// NetBalance is the aggregated, signed balance of the requesting user
// against one other group member. Positive means the member owes the user,
// negative means the user owes the member.
//
// It is a derived view recomputed from the ledger on every read, never
// stored.
type NetBalance struct {
	// MemberID references the other member.
	MemberID string `json:"id"`

	// Nickname is the other member's display name.
	Nickname string `json:"nickname"`

	// Amount is the signed net balance in the smallest currency unit.
	Amount int64 `json:"amount"`
}
