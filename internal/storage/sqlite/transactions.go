package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/moneybalancer/internal/models"
)

// CreateTransaction persists a transaction and all its debts atomically.
// Generates the ID and Timestamp if not set. If any debt insert fails, the
// whole unit rolls back and nothing is observable.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp == 0 {
		transaction.Timestamp = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO transactions (id, group_id, creditor_id, amount, description, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
		transaction.ID, transaction.GroupID, transaction.CreditorID,
		transaction.Amount, transaction.Description, transaction.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for _, debt := range transaction.Debts {
		unequal := 0
		if debt.WasSplitUnequally {
			unequal = 1
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO debts (transaction_id, debtor_id, amount, was_split_unequally) VALUES (?, ?, ?, ?)",
			transaction.ID, debt.DebtorID, debt.Amount, unequal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID, including its debts.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	transactions, err := s.queryTransactions(ctx, "t.id = ?", transactionID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, nil // Transaction not found
	}
	return transactions[0], nil
}

// ListTransactionsByGroup retrieves all transactions of a group with their
// debts, newest first.
func (s *SQLiteStore) ListTransactionsByGroup(ctx context.Context, groupID string) ([]*models.Transaction, error) {
	return s.queryTransactions(ctx, "t.group_id = ?", groupID)
}

// queryTransactions joins transactions with their debts in one query,
// ordered newest first, and folds the rows back into models.
func (s *SQLiteStore) queryTransactions(ctx context.Context, where string, arg any) ([]*models.Transaction, error) {
	query := fmt.Sprintf(
		`SELECT t.id, t.group_id, t.creditor_id, t.amount, t.description, t.timestamp,
		        d.debtor_id, d.amount, d.was_split_unequally
		 FROM transactions t
		 LEFT JOIN debts d ON d.transaction_id = t.id
		 WHERE %s
		 ORDER BY t.timestamp DESC, t.id, d.debtor_id`,
		where,
	)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	byID := make(map[string]*models.Transaction)
	for rows.Next() {
		var (
			t         models.Transaction
			debtorID  *string
			debtSum   *int64
			unequally *int
		)
		if err := rows.Scan(
			&t.ID, &t.GroupID, &t.CreditorID, &t.Amount, &t.Description, &t.Timestamp,
			&debtorID, &debtSum, &unequally,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		transaction, ok := byID[t.ID]
		if !ok {
			transaction = &t
			byID[t.ID] = transaction
			transactions = append(transactions, transaction)
		}
		if debtorID != nil {
			transaction.Debts = append(transaction.Debts, models.Debt{
				DebtorID:          *debtorID,
				Amount:            *debtSum,
				WasSplitUnequally: *unequally == 1,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// DeleteTransaction removes a transaction if it belongs to the group.
// Debts cascade with it. Returns false when nothing matched.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, groupID, transactionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND group_id = ?",
		transactionID, groupID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// UnequalDebtCounts counts the was-split-unequally debts per debtor across
// the group's whole history. Recomputed on every split so the fairness
// rotation stays consistent across restarts and instances.
func (s *SQLiteStore) UnequalDebtCounts(ctx context.Context, groupID string, debtorIDs []string) (map[string]int64, error) {
	if len(debtorIDs) == 0 {
		return map[string]int64{}, nil
	}

	query := `
		SELECT d.debtor_id, SUM(d.was_split_unequally)
		FROM debts d
		JOIN transactions t ON t.id = d.transaction_id
		WHERE t.group_id = ? AND d.debtor_id IN (?` + repeatPlaceholder(len(debtorIDs)-1) + `)
		GROUP BY d.debtor_id`

	args := make([]any, 0, len(debtorIDs)+1)
	args = append(args, groupID)
	for _, id := range debtorIDs {
		args = append(args, id)
	}

	return s.sumByKey(ctx, query, args...)
}

// DebtTotalsByCreditor sums what debtorID owes in the group, per creditor.
func (s *SQLiteStore) DebtTotalsByCreditor(ctx context.Context, groupID, debtorID string) (map[string]int64, error) {
	query := `
		SELECT t.creditor_id, SUM(d.amount)
		FROM debts d
		JOIN transactions t ON t.id = d.transaction_id
		WHERE t.group_id = ? AND d.debtor_id = ?
		GROUP BY t.creditor_id`

	return s.sumByKey(ctx, query, groupID, debtorID)
}

// CreditTotalsByDebtor sums what the group owes creditorID, per debtor.
func (s *SQLiteStore) CreditTotalsByDebtor(ctx context.Context, groupID, creditorID string) (map[string]int64, error) {
	query := `
		SELECT d.debtor_id, SUM(d.amount)
		FROM debts d
		JOIN transactions t ON t.id = d.transaction_id
		WHERE t.group_id = ? AND t.creditor_id = ?
		GROUP BY d.debtor_id`

	return s.sumByKey(ctx, query, groupID, creditorID)
}

// sumByKey runs an aggregate query returning (key, sum) rows into a map.
func (s *SQLiteStore) sumByKey(ctx context.Context, query string, args ...any) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run aggregate query: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int64)
	for rows.Next() {
		var key string
		var sum int64
		if err := rows.Scan(&key, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		sums[key] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregate rows: %w", err)
	}

	return sums, nil
}
