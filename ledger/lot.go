package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a position.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// ParseSide normalizes a user-supplied side string.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Long, Short:
		return Side(s), nil
	}
	switch s {
	case "long", "buy", "BUY":
		return Long, nil
	case "short", "sell", "SELL":
		return Short, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// Lot is an un-consumed slice of a position's cost basis, created by one
// entry fill. Lots belong to exactly one position and are consumed oldest
// first on settlement, newest first on correction.
type Lot struct {
	Price        decimal.Decimal `json:"price"`
	QtyRemaining int64           `json:"qty_remaining"`
	OpenedAt     time.Time       `json:"opened_at"`
}

// MatchedLot records how many shares a settlement consumed from a lot and at
// what cost basis. The sequence of matched lots is what makes a settlement
// exactly reversible.
type MatchedLot struct {
	LotPrice decimal.Decimal `json:"lot_price"`
	Qty      int64           `json:"qty"`
}

// WeightedAverage folds a new fill into an existing average entry price.
// Precondition: oldQty+fillQty > 0.
func WeightedAverage(oldQty int64, oldAvg decimal.Decimal, fillQty int64, fillPrice decimal.Decimal) decimal.Decimal {
	if fillQty == 0 {
		return oldAvg
	}
	if oldQty == 0 {
		return fillPrice
	}
	oldNotional := oldAvg.Mul(decimal.NewFromInt(oldQty))
	fillNotional := fillPrice.Mul(decimal.NewFromInt(fillQty))
	return oldNotional.Add(fillNotional).Div(decimal.NewFromInt(oldQty + fillQty))
}

// LotPnl is the profit realized by closing qty shares of a lot at exitPrice.
// Longs profit when price rises, shorts when it falls.
func LotPnl(side Side, lotPrice, exitPrice decimal.Decimal, qty int64) decimal.Decimal {
	q := decimal.NewFromInt(qty)
	if side == Short {
		return lotPrice.Sub(exitPrice).Mul(q)
	}
	return exitPrice.Sub(lotPrice).Mul(q)
}
