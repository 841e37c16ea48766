package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTenant is the tenant used by queries when no tenant id is given.
// Single-tenant callers never need to name a tenant explicitly.
const DefaultTenant = "default"

// Key identifies one open position. Two tenants holding the same symbol and
// side own fully independent positions.
type Key struct {
	Symbol   string `json:"symbol"`
	Side     Side   `json:"side"`
	TenantID string `json:"tenant_id"`
}

// Meta carries optional caller annotations. The ledger stores it verbatim and
// never reads it; core invariants do not depend on anything in here.
type Meta struct {
	Name    string `json:"name,omitempty"`
	Note    string `json:"note,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

// Position is the aggregate open exposure for one (symbol, side, tenant).
//
// AvgPrice is the weighted-average entry price and is held fixed across
// partial settlements: settlement realizes PnL against the lot prices
// actually consumed. It is recomputed only on entry fills and on undo, and
// reset when the position fully closes.
type Position struct {
	Symbol   string `json:"symbol"`
	Side     Side   `json:"side"`
	TenantID string `json:"tenant_id"`

	QtyTotal    int64           `json:"qty_total"`
	AvgPrice    decimal.Decimal `json:"avg_price"`
	Lots        []Lot           `json:"lots"`
	RealizedPnl decimal.Decimal `json:"realized_pnl"`

	// EnteredQty accumulates entry fills (less corrections) over the life of
	// the trade so the close snapshot can report the total quantity entered.
	// ExitQty and ExitNotional accumulate settlement legs for the
	// volume-weighted exit price.
	EnteredQty   int64           `json:"entered_qty"`
	ExitQty      int64           `json:"exit_qty"`
	ExitNotional decimal.Decimal `json:"exit_notional"`

	TradeID   string    `json:"trade_id,omitempty"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`

	Meta *Meta `json:"meta,omitempty"`
}

// Key returns the identity key of the position.
func (p *Position) Key() Key {
	return Key{Symbol: p.Symbol, Side: p.Side, TenantID: p.TenantID}
}

// Notional is the current cost basis across all remaining lots.
func (p *Position) Notional() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range p.Lots {
		total = total.Add(lot.Price.Mul(decimal.NewFromInt(lot.QtyRemaining)))
	}
	return total
}

// Clone returns a deep copy safe to hand outside the ledger lock.
func (p *Position) Clone() *Position {
	cp := *p
	cp.Lots = make([]Lot, len(p.Lots))
	copy(cp.Lots, p.Lots)
	if p.Meta != nil {
		m := *p.Meta
		cp.Meta = &m
	}
	return &cp
}
