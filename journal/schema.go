package journal

// Schema creates the trades table. Prices and PnL are stored as TEXT so the
// decimal values round-trip exactly; hold_duration is nanoseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	avg_entry TEXT NOT NULL,
	avg_exit TEXT NOT NULL,
	qty INTEGER NOT NULL,
	pnl_abs TEXT NOT NULL,
	pnl_pct TEXT NOT NULL,
	hold_duration INTEGER NOT NULL,
	closed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_closed_at ON trades(closed_at);
CREATE INDEX IF NOT EXISTS idx_trades_tenant ON trades(tenant_id);
`
