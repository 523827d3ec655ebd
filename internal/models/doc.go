// Package models defines the core domain models for the money balancer.
//
// # Entities
//
//   - User: a registered account, identified by a unique username
//   - Group: a circle of users who share expenses
//   - GroupMember: membership of a user in a group
//   - Transaction: one member paying an amount on behalf of others
//   - Debt: one debtor's share of a transaction
//   - NetBalance: derived view of what one member owes another
//
// # Design Principles
//
// 1. **Integer money**: all amounts are in the smallest currency unit
// (cents). No floats anywhere in the ledger, so sums are exact.
//
// 2. **Immutable ledger rows**: Transactions and Debts are created and
// deleted as a unit, never edited. Correcting a split means deleting the
// transaction and recording a new one.
//
// 3. **Avoid circular references**: entities reference each other by ID
// string, not by pointer.
package models
