package models

// Transaction represents one member (the creditor) paying an amount on
// behalf of other members of a group.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// GroupID is the group this transaction belongs to.
	GroupID string `json:"group_id"`

	// CreditorID is the member who paid. Must be a member of the group at
	// creation time.
	CreditorID string `json:"creditor_id"`

	// Amount is the total paid, in the smallest currency unit.
	Amount int64 `json:"amount"`

	// Description is a human-readable note (e.g., "Groceries").
	Description string `json:"description"`

	// Timestamp is the Unix timestamp of the transaction. Creation time
	// unless explicitly supplied.
	Timestamp int64 `json:"timestamp"`

	// Debts are the per-debtor shares of Amount. Created and deleted
	// atomically with the transaction, never mutated.
	Debts []Debt `json:"debts"`
}

// Debt is one debtor's share of a transaction.
type Debt struct {
	// DebtorID references the member who owes this share. Always differs
	// from the transaction's creditor; a creditor's own share is never
	// persisted.
	DebtorID string `json:"debtor_id"`

	// Amount is the owed share in the smallest currency unit.
	Amount int64 `json:"amount"`

	// WasSplitUnequally is true if this debtor absorbed an extra cent of
	// an indivisible remainder. Feeds the fairness rotation of future
	// splits in the same group.
	WasSplitUnequally bool `json:"was_split_unequally"`
}
