package calculator

import (
	"fmt"
	"sort"
)

// DebtShare is one debtor's computed share of a split amount.
type DebtShare struct {
	DebtorID          string
	Amount            int64
	WasSplitUnequally bool
}

// SplitAmount divides amount (smallest currency unit) among the given
// debtors. Every debtor owes at least floor(amount/n); the remaining
// amount-n*floor(amount/n) cents are charged one each to the debtors who
// have absorbed a remainder cent the fewest times before, per
// unequalCounts. Those debtors are flagged WasSplitUnequally.
//
// The creditor may appear among the debtors: their floor share counts
// toward the divisor, but they never absorb a remainder cent. With the
// creditor listed there are at most n-1 remainder cents and n-1 other
// debtors, so the cents always find a home.
//
// unequalCounts maps debtor ID to the number of unequally charged debts
// recorded for that debtor in the group so far; missing debtors count as
// zero. Ties are broken by debtor ID so the result is deterministic.
//
// The returned shares are ordered by debtor ID and always sum to amount.
func SplitAmount(amount int64, debtorIDs []string, creditorID string, unequalCounts map[string]int64) ([]DebtShare, error) {
	if amount < 0 {
		return nil, fmt.Errorf("amount must not be negative, got %d", amount)
	}
	debtors := dedupeSorted(debtorIDs)
	if len(debtors) == 0 {
		return nil, fmt.Errorf("must have at least one debtor")
	}

	n := int64(len(debtors))
	perDebtor := amount / n
	remainder := amount - perDebtor*n

	// Least-often-unequally-charged debtors absorb this split's extra cents.
	order := make([]string, 0, len(debtors))
	for _, debtor := range debtors {
		if debtor != creditorID {
			order = append(order, debtor)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := unequalCounts[order[i]], unequalCounts[order[j]]
		if ci != cj {
			return ci < cj
		}
		return order[i] < order[j]
	})

	extra := make(map[string]bool, remainder)
	for _, debtor := range order[:remainder] {
		extra[debtor] = true
	}

	shares := make([]DebtShare, len(debtors))
	for i, debtor := range debtors {
		shares[i] = DebtShare{DebtorID: debtor, Amount: perDebtor}
		if extra[debtor] {
			shares[i].Amount++
			shares[i].WasSplitUnequally = true
		}
	}
	return shares, nil
}

// dedupeSorted returns the unique non-empty debtor IDs in ascending order.
func dedupeSorted(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
