package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amounts(shares []Share) []string {
	out := make([]string, len(shares))
	for i, s := range shares {
		out[i] = s.Amount.StringFixed(2)
	}
	return out
}

func sumShares(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		members []int64
		want    []string
		wantIDs []int64
		wantErr bool
	}{
		{
			name:    "100 cents among three, last absorbs remainder",
			amount:  "1.00",
			members: []int64{1, 2, 3},
			want:    []string{"0.33", "0.33", "0.34"},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "100.00 among three",
			amount:  "100",
			members: []int64{3, 1, 2},
			want:    []string{"33.33", "33.33", "33.34"},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "divides evenly",
			amount:  "90",
			members: []int64{5, 6},
			want:    []string{"45.00", "45.00"},
			wantIDs: []int64{5, 6},
		},
		{
			name:    "single member takes everything",
			amount:  "12.34",
			members: []int64{9},
			want:    []string{"12.34"},
			wantIDs: []int64{9},
		},
		{
			name:    "more members than cents",
			amount:  "0.02",
			members: []int64{1, 2, 3},
			want:    []string{"0.00", "0.00", "0.02"},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "amount beyond int64 cents",
			amount:  "100000000000000000000",
			members: []int64{1, 2, 3},
			want:    []string{"33333333333333333333.33", "33333333333333333333.33", "33333333333333333333.34"},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "just past the int64 cent range",
			amount:  "92233720368547758.08",
			members: []int64{1, 2},
			want:    []string{"46116860184273879.04", "46116860184273879.04"},
			wantIDs: []int64{1, 2},
		},
		{name: "no members", amount: "10", wantErr: true},
		{name: "zero amount", amount: "0", members: []int64{1}, wantErr: true},
		{name: "sub-cent amount", amount: "1.005", members: []int64{1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualSplit(d(tt.amount), tt.members)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSplit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, amounts(shares))
			for i, s := range shares {
				assert.Equal(t, tt.wantIDs[i], s.UserID)
			}
			assert.True(t, sumShares(shares).Equal(d(tt.amount)), "shares must sum to the amount")
		})
	}
}

func TestEqualSplitDoesNotReorderInput(t *testing.T) {
	members := []int64{3, 1, 2}
	_, err := EqualSplit(d("10"), members)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, members)
}

func TestNormalizeSplits(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		shares  []Share
		want    []string
		wantErr bool
	}{
		{
			name:   "exact sum",
			amount: "30",
			shares: []Share{{1, d("10")}, {2, d("20")}},
			want:   []string{"10.00", "20.00"},
		},
		{
			name:   "one cent short is absorbed by the last split",
			amount: "10.00",
			shares: []Share{{1, d("3.33")}, {2, d("3.33")}, {3, d("3.33")}},
			want:   []string{"3.33", "3.33", "3.34"},
		},
		{
			name:   "one cent over is absorbed by the last split",
			amount: "10.00",
			shares: []Share{{1, d("5.00")}, {2, d("5.01")}},
			want:   []string{"5.00", "5.00"},
		},
		{
			name:   "zero share is allowed",
			amount: "10",
			shares: []Share{{1, d("10")}, {2, d("0")}},
			want:   []string{"10.00", "0.00"},
		},
		{name: "mismatch beyond tolerance", amount: "10", shares: []Share{{1, d("5")}, {2, d("4.98")}}, wantErr: true},
		{name: "negative share", amount: "10", shares: []Share{{1, d("11")}, {2, d("-1")}}, wantErr: true},
		{name: "duplicate user", amount: "10", shares: []Share{{1, d("5")}, {1, d("5")}}, wantErr: true},
		{name: "sub-cent share", amount: "10", shares: []Share{{1, d("9.995")}, {2, d("0.005")}}, wantErr: true},
		{name: "empty", amount: "10", wantErr: true},
		{name: "absorbing would go negative", amount: "10", shares: []Share{{1, d("10.01")}, {2, d("0")}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := NormalizeSplits(d(tt.amount), tt.shares)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSplit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, amounts(shares))
			assert.True(t, sumShares(shares).Equal(d(tt.amount)))
		})
	}
}
