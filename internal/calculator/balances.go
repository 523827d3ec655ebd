package calculator

import "github.com/mmynk/moneybalancer/internal/models"

// NetBalances combines per-member credit and debt sums into the signed net
// balance of one user against every other member of a group.
//
// credits maps member ID to the total that member owes the user (the user
// was the creditor); debts maps member ID to the total the user owes that
// member (the member was the creditor). Members missing from either map
// contribute zero.
//
// Every member except the user appears in the result, in the order of
// members, so callers get a deterministic, zero-inclusive view.
func NetBalances(userID string, members []models.GroupMember, credits, debts map[string]int64) []models.NetBalance {
	balances := make([]models.NetBalance, 0, len(members))
	for _, member := range members {
		if member.UserID == userID {
			continue
		}
		balances = append(balances, models.NetBalance{
			MemberID: member.UserID,
			Nickname: member.Nickname,
			Amount:   credits[member.UserID] - debts[member.UserID],
		})
	}
	return balances
}
