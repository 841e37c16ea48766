package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV appends closed trades to a flat file for spreadsheet import.
type CSV struct {
	w *csv.Writer
	f *os.File
}

// NewCSV opens path for appending, creating it (with a header row) on
// first use. Reopening an existing journal keeps its rows.
func NewCSV(path string) (*CSV, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := w.Write([]string{
			"trade_id", "tenant_id", "symbol", "side",
			"avg_entry", "avg_exit", "qty", "pnl_abs", "pnl_pct",
			"hold_duration", "closed_at",
		}); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	err := j.w.Write([]string{
		t.TradeID,
		t.TenantID,
		t.Symbol,
		t.Side,
		t.AvgEntry.String(),
		t.AvgExit.String(),
		strconv.FormatInt(t.Qty, 10),
		t.PnlAbs.String(),
		t.PnlPct.String(),
		t.HoldDuration.String(),
		t.ClosedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}
