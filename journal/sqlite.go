package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the queryable journal backend.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordTrade inserts a closed trade. INSERT OR REPLACE keeps a bridge retry
// of an already-delivered record harmless.
func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO trades
		(trade_id, tenant_id, symbol, side, avg_entry, avg_exit, qty, pnl_abs, pnl_pct, hold_duration, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.TenantID, t.Symbol, t.Side,
		t.AvgEntry.String(), t.AvgExit.String(), t.Qty,
		t.PnlAbs.String(), t.PnlPct.String(),
		int64(t.HoldDuration), t.ClosedAt,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
