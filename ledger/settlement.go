package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementRecord is the per-exit-event history entry that makes a
// settlement reversible. It is keyed by the caller's exit-event id, created
// exactly once per settlement, and immutable except for the Undone flag,
// which flips false to true at most once.
type SettlementRecord struct {
	Symbol   string `json:"symbol"`
	Side     Side   `json:"side"`
	TenantID string `json:"tenant_id"`

	ExitPrice   decimal.Decimal `json:"exit_price"`
	ExitQty     int64           `json:"exit_qty"`
	RealizedPnl decimal.Decimal `json:"realized_pnl"`
	MatchedLots []MatchedLot    `json:"matched_lots"`

	CreatedAt time.Time `json:"created_at"`
	Undone    bool      `json:"undone"`
}

func (r *SettlementRecord) clone() *SettlementRecord {
	cp := *r
	cp.MatchedLots = make([]MatchedLot, len(r.MatchedLots))
	copy(cp.MatchedLots, r.MatchedLots)
	return &cp
}

// TradeSnapshot is the write-once record emitted when a position's quantity
// returns to zero through settlement. It is the data shape handed to the
// journal bridge; the ledger keeps no reference after the close.
type TradeSnapshot struct {
	TradeID  string `json:"trade_id"`
	TenantID string `json:"tenant_id"`
	Symbol   string `json:"symbol"`
	Side     Side   `json:"side"`

	AvgEntry decimal.Decimal `json:"avg_entry"`
	AvgExit  decimal.Decimal `json:"avg_exit"`
	Qty      int64           `json:"qty"`
	PnlAbs   decimal.Decimal `json:"pnl_abs"`
	PnlPct   decimal.Decimal `json:"pnl_pct"`

	HoldDuration time.Duration `json:"hold_duration"`
	ClosedAt     time.Time     `json:"closed_at"`
}

// SettleResult is everything a settlement produced. Position is nil when the
// settlement fully closed the position, in which case Snapshot is set if the
// trade's entry time was known.
type SettleResult struct {
	Position    *Position
	RealizedPnl decimal.Decimal
	MatchedLots []MatchedLot
	Snapshot    *TradeSnapshot
}
