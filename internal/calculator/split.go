package calculator

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrInvalidSplit is returned when a set of shares cannot be reconciled with an expense amount.
var ErrInvalidSplit = errors.New("invalid split")

// Cent is the minor unit. Every stored amount is a whole number of cents.
var Cent = decimal.New(1, -2)

// Share is one user's portion of an expense amount.
type Share struct {
	UserID int64
	Amount decimal.Decimal
}

// MaxAmount is the largest expense amount accepted.
var MaxAmount = decimal.RequireFromString("1000000000.00")

// IsWholeCents reports whether d has at most two fractional digits.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// EqualSplit distributes amount equally among members, ordered by ascending user ID.
// Each member gets amount/len(members) rounded down to the cent and the last member
// absorbs the remainder, so the shares always sum to amount exactly.
//
//	EqualSplit(100.00, [1 2 3]) => 33.33, 33.33, 33.34
func EqualSplit(amount decimal.Decimal, members []int64) ([]Share, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: must have at least one member", ErrInvalidSplit)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidSplit)
	}
	if !IsWholeCents(amount) {
		return nil, fmt.Errorf("%w: amount has more than two decimal places", ErrInvalidSplit)
	}

	ids := append([]int64(nil), members...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// Work in whole cents on big.Int so no amount can overflow.
	total := amount.Shift(2).BigInt()
	base, remainder := new(big.Int).QuoRem(total, big.NewInt(int64(len(ids))), new(big.Int))

	shares := make([]Share, len(ids))
	for i, id := range ids {
		cents := base
		if i == len(ids)-1 {
			cents = new(big.Int).Add(base, remainder)
		}
		shares[i] = Share{UserID: id, Amount: decimal.NewFromBigInt(cents, -2)}
	}
	return shares, nil
}

// NormalizeSplits validates explicit shares against amount.
// Shares must be non-negative whole cents with no repeated user. When the sum differs
// from amount by at most one cent, the last share absorbs the difference so the
// expense balances exactly; a larger difference is rejected.
func NormalizeSplits(amount decimal.Decimal, shares []Share) ([]Share, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: at least one split is required", ErrInvalidSplit)
	}

	seen := make(map[int64]bool, len(shares))
	sum := decimal.Zero
	for _, s := range shares {
		if seen[s.UserID] {
			return nil, fmt.Errorf("%w: user %d appears more than once", ErrInvalidSplit, s.UserID)
		}
		seen[s.UserID] = true
		if s.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: split for user %d is negative", ErrInvalidSplit, s.UserID)
		}
		if !IsWholeCents(s.Amount) {
			return nil, fmt.Errorf("%w: split for user %d has more than two decimal places", ErrInvalidSplit, s.UserID)
		}
		sum = sum.Add(s.Amount)
	}

	diff := amount.Sub(sum)
	if diff.Abs().GreaterThan(Cent) {
		return nil, fmt.Errorf("%w: splits sum to %s but amount is %s", ErrInvalidSplit, sum.StringFixed(2), amount.StringFixed(2))
	}

	out := append([]Share(nil), shares...)
	if !diff.IsZero() {
		last := &out[len(out)-1]
		last.Amount = last.Amount.Add(diff)
		if last.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: rounding would make split for user %d negative", ErrInvalidSplit, last.UserID)
		}
	}
	return out, nil
}
