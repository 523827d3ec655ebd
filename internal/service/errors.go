// Package service implements the business logic of the money balancer:
// group membership, the transaction lifecycle, and the debt ledger.
package service

import "errors"

var (
	// ErrGroupNotFound means the group does not exist or the caller is not
	// a member. The two cases are deliberately indistinguishable so that
	// non-members cannot probe for group existence.
	ErrGroupNotFound = errors.New("group not found")

	// ErrDebtorNotInGroup means one or more requested debtors are not
	// members of the group. The whole operation is rejected; there are no
	// partial splits.
	ErrDebtorNotInGroup = errors.New("debtor is not a member of the group")

	// ErrInvalidTransaction means the transaction request itself is
	// malformed (no debtors, negative amount).
	ErrInvalidTransaction = errors.New("invalid transaction")
)
