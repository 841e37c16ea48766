// Package journal archives closed trades.
//
// The ledger emits one TradeSnapshot per full position close; the journal is
// the durable, append-only record of those closes. Two backends exist: a
// SQLite database for querying and a CSV file for spreadsheet export. The
// Bridge type adds the delivery-retry queue that sits between the ledger and
// a backend.
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/posledger/ledger"
)

// TradeRecord is the journal-side image of a closed trade.
type TradeRecord struct {
	TradeID  string
	TenantID string
	Symbol   string
	Side     string

	AvgEntry decimal.Decimal
	AvgExit  decimal.Decimal
	Qty      int64
	PnlAbs   decimal.Decimal
	PnlPct   decimal.Decimal

	HoldDuration time.Duration
	ClosedAt     time.Time
}

// FromSnapshot converts a ledger close snapshot into a journal record.
func FromSnapshot(snap ledger.TradeSnapshot) TradeRecord {
	return TradeRecord{
		TradeID:      snap.TradeID,
		TenantID:     snap.TenantID,
		Symbol:       snap.Symbol,
		Side:         string(snap.Side),
		AvgEntry:     snap.AvgEntry,
		AvgExit:      snap.AvgExit,
		Qty:          snap.Qty,
		PnlAbs:       snap.PnlAbs,
		PnlPct:       snap.PnlPct,
		HoldDuration: snap.HoldDuration,
		ClosedAt:     snap.ClosedAt,
	}
}

// Journal is a closed-trade archive backend.
type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}
