package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/moneybalancer/internal/calculator"
	"github.com/mmynk/moneybalancer/internal/metrics"
	"github.com/mmynk/moneybalancer/internal/models"
	"github.com/mmynk/moneybalancer/internal/storage"
)

// LedgerService manages the transaction lifecycle and the derived debt
// ledger of a group. All state lives in the store; fairness history is
// recomputed from persisted debts on every split, so concurrent instances
// stay consistent without shared in-process state.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreateTransactionFromAmount records creditorID paying amount on behalf of
// debtorIDs, splitting the amount fairly. Remainder cents go to the debtors
// least often unequally charged in the group so far.
//
// The creditor may list themself as a debtor: their share counts toward
// the divisor but is not persisted, since a creditor owing themself cancels
// out of every balance. The creditor never absorbs a remainder cent.
//
// timestamp is a Unix timestamp; zero means the current time.
func (s *LedgerService) CreateTransactionFromAmount(ctx context.Context, groupID, creditorID string, debtorIDs []string, amount int64, description string, timestamp int64) (*models.Transaction, error) {
	if err := s.authorize(ctx, groupID, creditorID, debtorIDs); err != nil {
		return nil, err
	}

	counts, err := s.store.UnequalDebtCounts(ctx, groupID, debtorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load fairness history: %w", err)
	}

	shares, err := calculator.SplitAmount(amount, debtorIDs, creditorID, counts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	debts := make([]models.Debt, 0, len(shares))
	for _, share := range shares {
		if share.DebtorID == creditorID {
			continue // paid-to-self share is never persisted
		}
		debts = append(debts, models.Debt{
			DebtorID:          share.DebtorID,
			Amount:            share.Amount,
			WasSplitUnequally: share.WasSplitUnequally,
		})
	}

	return s.persist(ctx, &models.Transaction{
		GroupID:     groupID,
		CreditorID:  creditorID,
		Amount:      amount,
		Description: description,
		Timestamp:   timestamp,
		Debts:       debts,
	})
}

// CreateTransactionFromDebts records a transaction whose per-debtor shares
// the caller supplies explicitly. The transaction amount is the sum of the
// debts; the flags are stored as given. Converges on the same persistence
// path as the amount-based variant.
func (s *LedgerService) CreateTransactionFromDebts(ctx context.Context, groupID, creditorID string, debts []models.Debt, description string, timestamp int64) (*models.Transaction, error) {
	debtorIDs := make([]string, 0, len(debts))
	for _, debt := range debts {
		debtorIDs = append(debtorIDs, debt.DebtorID)
	}

	if err := s.authorize(ctx, groupID, creditorID, debtorIDs); err != nil {
		return nil, err
	}

	var amount int64
	kept := make([]models.Debt, 0, len(debts))
	seen := make(map[string]bool, len(debts))
	for _, debt := range debts {
		if debt.Amount < 0 || seen[debt.DebtorID] {
			return nil, fmt.Errorf("%w: bad debt for %s", ErrInvalidTransaction, debt.DebtorID)
		}
		seen[debt.DebtorID] = true
		amount += debt.Amount
		if debt.DebtorID == creditorID {
			continue // paid-to-self share is never persisted
		}
		kept = append(kept, debt)
	}
	if len(debts) == 0 {
		return nil, fmt.Errorf("%w: no debts", ErrInvalidTransaction)
	}

	return s.persist(ctx, &models.Transaction{
		GroupID:     groupID,
		CreditorID:  creditorID,
		Amount:      amount,
		Description: description,
		Timestamp:   timestamp,
		Debts:       kept,
	})
}

// ListTransactions lists the group's transactions newest first, gated on
// the caller's membership.
func (s *LedgerService) ListTransactions(ctx context.Context, groupID, callerID string) ([]*models.Transaction, error) {
	isMember, err := s.store.IsGroupMember(ctx, groupID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrGroupNotFound
	}

	transactions, err := s.store.ListTransactionsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// DeleteTransaction removes a transaction and its debts if it belongs to
// the group. Returns false if no such transaction exists; callers that are
// not members get ErrGroupNotFound before the delete is attempted.
//
// Fairness history is not rewritten: splits computed while the transaction
// existed keep their outcome.
func (s *LedgerService) DeleteTransaction(ctx context.Context, groupID, callerID, transactionID string) (bool, error) {
	isMember, err := s.store.IsGroupMember(ctx, groupID, callerID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return false, ErrGroupNotFound
	}

	deleted, err := s.store.DeleteTransaction(ctx, groupID, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}
	if deleted {
		metrics.TransactionsDeleted.Inc()
		slog.Info("Transaction deleted", "group_id", groupID, "transaction_id", transactionID)
	}
	return deleted, nil
}

// NetBalances computes the caller's signed balance against every other
// member of the group, from the current ledger rows. Positive means the
// member owes the caller. A pure read-side aggregation, recomputed on every
// call.
func (s *LedgerService) NetBalances(ctx context.Context, groupID, userID string) ([]models.NetBalance, error) {
	isMember, err := s.store.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrGroupNotFound
	}

	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	debts, err := s.store.DebtTotalsByCreditor(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum debts: %w", err)
	}

	credits, err := s.store.CreditTotalsByDebtor(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum credits: %w", err)
	}

	return calculator.NetBalances(userID, members, credits, debts), nil
}

// authorize enforces the membership preconditions of transaction creation:
// the creditor must be a member of a non-empty group (else the group is
// reported not found), and every debtor must be a member.
func (s *LedgerService) authorize(ctx context.Context, groupID, creditorID string, debtorIDs []string) error {
	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to list group members: %w", err)
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m.UserID] = true
	}

	if len(members) == 0 || !memberSet[creditorID] {
		return ErrGroupNotFound
	}
	for _, debtor := range debtorIDs {
		if !memberSet[debtor] {
			return ErrDebtorNotInGroup
		}
	}
	return nil
}

// persist writes the transaction with its debts atomically and reads it
// back after commit.
func (s *LedgerService) persist(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error) {
	if err := s.store.CreateTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	created, err := s.store.GetTransaction(ctx, transaction.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back transaction: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("transaction %s vanished after commit", transaction.ID)
	}

	metrics.TransactionsCreated.Inc()
	metrics.SplitDebtors.Observe(float64(len(created.Debts)))
	slog.Info("Transaction created",
		"group_id", created.GroupID,
		"transaction_id", created.ID,
		"creditor_id", created.CreditorID,
		"amount", created.Amount,
		"debtors", len(created.Debts),
	)
	return created, nil
}
