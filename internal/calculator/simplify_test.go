package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// applyTransactions settles nets with txns and returns what is left.
func applyTransactions(nets map[int64]decimal.Decimal, txns []Transaction) map[int64]decimal.Decimal {
	left := make(map[int64]decimal.Decimal, len(nets))
	for k, v := range nets {
		left[k] = v
	}
	for _, tx := range txns {
		left[tx.From] = left[tx.From].Add(tx.Amount)
		left[tx.To] = left[tx.To].Sub(tx.Amount)
	}
	return left
}

func nonZero(nets map[int64]decimal.Decimal) int {
	n := 0
	for _, v := range nets {
		if !v.IsZero() {
			n++
		}
	}
	return n
}

func TestSimplify_Cycle(t *testing.T) {
	// A=1 owes B=2 30, B owes C=3 30, C owes A 10.
	expenses := []ExpenseForBalance{
		{PayerID: 2, Amount: d("30"), Splits: []Share{{1, d("30")}}},
		{PayerID: 3, Amount: d("30"), Splits: []Share{{2, d("30")}}},
		{PayerID: 1, Amount: d("10"), Splits: []Share{{3, d("10")}}},
	}
	nets := NetPositions(ComputeNetBalances(expenses))
	assert.Equal(t, "-20.00", nets[1].StringFixed(2))
	assert.True(t, nets[2].IsZero())
	assert.Equal(t, "20.00", nets[3].StringFixed(2))

	txns := Simplify(nets)
	require.Len(t, txns, 1)
	assert.Equal(t, int64(1), txns[0].From)
	assert.Equal(t, int64(3), txns[0].To)
	assert.Equal(t, "20.00", txns[0].Amount.StringFixed(2))
}

func TestSimplify_Empty(t *testing.T) {
	assert.Empty(t, Simplify(nil))
	assert.Empty(t, Simplify(map[int64]decimal.Decimal{1: decimal.Zero, 2: decimal.Zero}))
}

func TestSimplify_LargestFirst(t *testing.T) {
	nets := map[int64]decimal.Decimal{
		1: d("-50"),
		2: d("-10"),
		3: d("40"),
		4: d("20"),
	}
	txns := Simplify(nets)
	require.Len(t, txns, 3)

	assert.Equal(t, int64(1), txns[0].From)
	assert.Equal(t, int64(3), txns[0].To)
	assert.Equal(t, "40.00", txns[0].Amount.StringFixed(2))
	// Debtors 1 and 2 are tied at 10; the lower ID pays first.
	assert.Equal(t, int64(1), txns[1].From)
	assert.Equal(t, int64(4), txns[1].To)
	assert.Equal(t, "10.00", txns[1].Amount.StringFixed(2))
	assert.Equal(t, int64(2), txns[2].From)
	assert.Equal(t, int64(4), txns[2].To)
	assert.Equal(t, "10.00", txns[2].Amount.StringFixed(2))
}

func TestSimplify_TieBreakByUserID(t *testing.T) {
	nets := map[int64]decimal.Decimal{
		7: d("10"),
		3: d("10"),
		9: d("-10"),
		5: d("-10"),
	}
	txns := Simplify(nets)
	require.Len(t, txns, 2)
	assert.Equal(t, int64(5), txns[0].From)
	assert.Equal(t, int64(3), txns[0].To)
	assert.Equal(t, int64(9), txns[1].From)
	assert.Equal(t, int64(7), txns[1].To)
}

func TestSimplify_Properties(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		nets := NetPositions(ComputeNetBalances(randomHistory(seed, 8, 30)))
		txns := Simplify(nets)

		users := nonZero(nets)
		if users > 0 {
			assert.LessOrEqual(t, len(txns), users-1, "seed %d", seed)
		} else {
			assert.Empty(t, txns, "seed %d", seed)
		}

		for _, tx := range txns {
			assert.True(t, tx.Amount.IsPositive(), "seed %d: non-positive transaction", seed)
			assert.NotEqual(t, tx.From, tx.To, "seed %d", seed)
		}

		left := applyTransactions(nets, txns)
		assert.Zero(t, nonZero(left), "seed %d: balances not settled", seed)
	}
}

func TestSimplify_Deterministic(t *testing.T) {
	nets := NetPositions(ComputeNetBalances(randomHistory(99, 10, 80)))
	first := Simplify(nets)
	for i := 0; i < 20; i++ {
		again := Simplify(nets)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].From, again[j].From)
			assert.Equal(t, first[j].To, again[j].To)
			assert.True(t, first[j].Amount.Equal(again[j].Amount))
		}
	}
}

func TestFilterByUser(t *testing.T) {
	txns := []Transaction{
		{From: 1, To: 2, Amount: d("5")},
		{From: 3, To: 4, Amount: d("6")},
		{From: 4, To: 1, Amount: d("7")},
	}
	got := FilterByUser(txns, 1)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].To)
	assert.Equal(t, int64(4), got[1].From)
	assert.Empty(t, FilterByUser(txns, 99))
}
