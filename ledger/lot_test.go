package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeightedAverage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		oldQty    int64
		oldAvg    string
		fillQty   int64
		fillPrice string
		want      string
	}{
		{"first fill", 0, "0", 100, "150", "150"},
		{"equal weights", 100, "150", 100, "160", "155"},
		{"unequal weights", 100, "150", 300, "170", "165"},
		{"zero fill keeps avg", 200, "155", 0, "999", "155"},
		{"fractional result", 1, "1", 2, "2", "1.6666666666666667"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeightedAverage(tc.oldQty, dec(tc.oldAvg), tc.fillQty, dec(tc.fillPrice))
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestLotPnl(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		side     Side
		lotPrice string
		exit     string
		qty      int64
		want     string
	}{
		{"long gain", Long, "150", "170", 50, "1000"},
		{"long loss", Long, "150", "140", 50, "-500"},
		{"short gain", Short, "150", "140", 50, "500"},
		{"short loss", Short, "150", "170", 50, "-1000"},
		{"flat", Long, "150", "150", 100, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LotPnl(tc.side, dec(tc.lotPrice), dec(tc.exit), tc.qty)
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestParseSide(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"LONG", "long", "buy", "BUY"} {
		side, err := ParseSide(in)
		assert.NoError(t, err)
		assert.Equal(t, Long, side)
	}
	for _, in := range []string{"SHORT", "short", "sell", "SELL"} {
		side, err := ParseSide(in)
		assert.NoError(t, err)
		assert.Equal(t, Short, side)
	}

	_, err := ParseSide("sideways")
	assert.Error(t, err)
}
