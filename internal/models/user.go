package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the unique login name. Never displayed to other members.
	Username string `json:"username"`

	// Nickname is the display name shown to other group members.
	Nickname string `json:"nickname"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}
