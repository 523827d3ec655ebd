package calculator

import (
	"testing"

	"github.com/mmynk/moneybalancer/internal/models"
)

func TestNetBalances(t *testing.T) {
	members := []models.GroupMember{
		{UserID: "alice", Nickname: "Alice", IsOwner: true},
		{UserID: "bob", Nickname: "Bob"},
		{UserID: "carol", Nickname: "Carol"},
	}

	t.Run("credits minus debts per member", func(t *testing.T) {
		credits := map[string]int64{"bob": 500, "carol": 200}
		debts := map[string]int64{"bob": 300}

		balances := NetBalances("alice", members, credits, debts)
		want := map[string]int64{"bob": 200, "carol": 200}
		if len(balances) != 2 {
			t.Fatalf("len(balances) = %d, want 2", len(balances))
		}
		for _, b := range balances {
			if b.Amount != want[b.MemberID] {
				t.Errorf("balance[%s] = %d, want %d", b.MemberID, b.Amount, want[b.MemberID])
			}
		}
	})

	t.Run("self excluded, zero balances included", func(t *testing.T) {
		balances := NetBalances("bob", members, nil, nil)
		if len(balances) != 2 {
			t.Fatalf("len(balances) = %d, want 2", len(balances))
		}
		for _, b := range balances {
			if b.MemberID == "bob" {
				t.Error("user's own balance included in result")
			}
			if b.Amount != 0 {
				t.Errorf("balance[%s] = %d, want 0", b.MemberID, b.Amount)
			}
		}
	})

	t.Run("member order preserved", func(t *testing.T) {
		balances := NetBalances("carol", members, nil, nil)
		if balances[0].MemberID != "alice" || balances[1].MemberID != "bob" {
			t.Errorf("order = [%s, %s], want [alice, bob]", balances[0].MemberID, balances[1].MemberID)
		}
	})
}
