package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	PayerID int64
	Amount  decimal.Decimal
	Splits  []Share
}

// Pair is an unordered pair of users, stored with Low < High.
type Pair struct {
	Low  int64
	High int64
}

// NewPair orders a and b into a Pair.
func NewPair(a, b int64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// MemberTotals is one member's aggregated position.
type MemberTotals struct {
	UserID    int64
	TotalPaid decimal.Decimal
	TotalOwed decimal.Decimal
	Net       decimal.Decimal // Positive = owed money, Negative = owes money
}

// ComputeNetBalances folds an expense history into pairwise balances.
//
// The value for Pair{Low, High} is positive when High owes Low and negative when
// Low owes High. For every split the share is added to the debt of the split's user
// toward the payer; self-splits are skipped. The fold is a plain sum, so the result
// does not depend on the order of expenses.
func ComputeNetBalances(expenses []ExpenseForBalance) map[Pair]decimal.Decimal {
	balances := make(map[Pair]decimal.Decimal)
	for _, e := range expenses {
		for _, s := range e.Splits {
			if s.UserID == e.PayerID {
				continue
			}
			p := NewPair(s.UserID, e.PayerID)
			if p.Low == e.PayerID {
				balances[p] = balances[p].Add(s.Amount)
			} else {
				balances[p] = balances[p].Sub(s.Amount)
			}
		}
	}
	return balances
}

// NetPositions collapses pairwise balances into one signed amount per user.
// Positive = net creditor, negative = net debtor. The values always sum to zero.
func NetPositions(balances map[Pair]decimal.Decimal) map[int64]decimal.Decimal {
	nets := make(map[int64]decimal.Decimal)
	for p, amount := range balances {
		nets[p.Low] = nets[p.Low].Add(amount)
		nets[p.High] = nets[p.High].Sub(amount)
	}
	return nets
}

// CalculateMemberTotals computes paid/owed/net per member, sorted by user ID.
// Every member in members appears even with no activity; users that appear only in
// the history are included too.
func CalculateMemberTotals(expenses []ExpenseForBalance, members []int64) []MemberTotals {
	totals := make(map[int64]*MemberTotals, len(members))
	get := func(id int64) *MemberTotals {
		t, ok := totals[id]
		if !ok {
			t = &MemberTotals{UserID: id}
			totals[id] = t
		}
		return t
	}
	for _, id := range members {
		get(id)
	}

	for _, e := range expenses {
		payer := get(e.PayerID)
		payer.TotalPaid = payer.TotalPaid.Add(e.Amount)
		for _, s := range e.Splits {
			owner := get(s.UserID)
			owner.TotalOwed = owner.TotalOwed.Add(s.Amount)
		}
	}

	out := make([]MemberTotals, 0, len(totals))
	for _, t := range totals {
		t.Net = t.TotalPaid.Sub(t.TotalOwed)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
