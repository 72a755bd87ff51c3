package calculator

import (
	"container/heap"

	"github.com/shopspring/decimal"
)

// Transaction is one payment in a simplified plan: From pays To.
type Transaction struct {
	From   int64
	To     int64
	Amount decimal.Decimal
}

// position is a user's outstanding magnitude on one side of the ledger.
type position struct {
	userID int64
	amount decimal.Decimal // always positive
}

// positionHeap is a max-heap by amount; equal amounts pop in ascending user ID order.
type positionHeap []position

func (h positionHeap) Len() int { return len(h) }

func (h positionHeap) Less(i, j int) bool {
	if c := h[i].amount.Cmp(h[j].amount); c != 0 {
		return c > 0
	}
	return h[i].userID < h[j].userID
}

func (h positionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *positionHeap) Push(x any) { *h = append(*h, x.(position)) }

func (h *positionHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// Simplify reduces net positions to a small set of payments that zero every balance.
//
// Greedy min-cash-flow: repeatedly match the largest creditor with the largest debtor,
// transfer the smaller of the two magnitudes, and put back whichever side is left over.
// Each step retires at least one user, so at most n-1 transactions are emitted for n
// users with a nonzero position. Output is deterministic for a given input.
func Simplify(nets map[int64]decimal.Decimal) []Transaction {
	creditors := &positionHeap{}
	debtors := &positionHeap{}
	for userID, net := range nets {
		switch net.Sign() {
		case 1:
			*creditors = append(*creditors, position{userID: userID, amount: net})
		case -1:
			*debtors = append(*debtors, position{userID: userID, amount: net.Neg()})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	var txns []Transaction
	for creditors.Len() > 0 && debtors.Len() > 0 {
		c := heap.Pop(creditors).(position)
		d := heap.Pop(debtors).(position)

		amount := decimal.Min(c.amount, d.amount)
		txns = append(txns, Transaction{From: d.userID, To: c.userID, Amount: amount})

		c.amount = c.amount.Sub(amount)
		d.amount = d.amount.Sub(amount)
		if c.amount.IsPositive() {
			heap.Push(creditors, c)
		}
		if d.amount.IsPositive() {
			heap.Push(debtors, d)
		}
	}
	return txns
}

// FilterByUser keeps the transactions where userID pays or receives.
func FilterByUser(txns []Transaction, userID int64) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.From == userID || t.To == userID {
			out = append(out, t)
		}
	}
	return out
}
