package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const tradeColumns = `trade_id, tenant_id, symbol, side, avg_entry, avg_exit, qty, pnl_abs, pnl_pct, hold_duration, closed_at`

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns trades whose close time is within
// [start, end), oldest first.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE closed_at >= ? AND closed_at < ?
		ORDER BY closed_at ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TenantPnl sums realized PnL across a tenant's archived trades.
func (j *SQLite) TenantPnl(tenantID string) (decimal.Decimal, error) {
	rows, err := j.db.Query(`SELECT pnl_abs FROM trades WHERE tenant_id = ?`, tenantID)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, err
		}
		pnl, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad pnl_abs %q: %w", raw, err)
		}
		total = total.Add(pnl)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (TradeRecord, error) {
	var rec TradeRecord
	var avgEntry, avgExit, pnlAbs, pnlPct string
	var hold int64

	err := row.Scan(
		&rec.TradeID,
		&rec.TenantID,
		&rec.Symbol,
		&rec.Side,
		&avgEntry,
		&avgExit,
		&rec.Qty,
		&pnlAbs,
		&pnlPct,
		&hold,
		&rec.ClosedAt,
	)
	if err != nil {
		return TradeRecord{}, err
	}

	if rec.AvgEntry, err = decimal.NewFromString(avgEntry); err != nil {
		return TradeRecord{}, fmt.Errorf("bad avg_entry %q: %w", avgEntry, err)
	}
	if rec.AvgExit, err = decimal.NewFromString(avgExit); err != nil {
		return TradeRecord{}, fmt.Errorf("bad avg_exit %q: %w", avgExit, err)
	}
	if rec.PnlAbs, err = decimal.NewFromString(pnlAbs); err != nil {
		return TradeRecord{}, fmt.Errorf("bad pnl_abs %q: %w", pnlAbs, err)
	}
	if rec.PnlPct, err = decimal.NewFromString(pnlPct); err != nil {
		return TradeRecord{}, fmt.Errorf("bad pnl_pct %q: %w", pnlPct, err)
	}
	rec.HoldDuration = time.Duration(hold)
	return rec, nil
}
