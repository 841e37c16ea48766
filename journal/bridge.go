package journal

import (
	"sync"

	"go.uber.org/zap"
)

// Bridge forwards close snapshots from the ledger to a Journal backend.
// Delivery failures are queued here and retried by Flush; the ledger never
// retries, and a queued record survives until it is delivered or the bridge
// is closed.
type Bridge struct {
	mu      sync.Mutex
	dest    Journal
	pending []TradeRecord
	log     *zap.Logger
}

func NewBridge(dest Journal, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{dest: dest, log: log}
}

// Archive delivers one record, queueing it on failure. The error is returned
// for logging but the record is not lost.
func (b *Bridge) Archive(rec TradeRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.dest.RecordTrade(rec); err != nil {
		b.pending = append(b.pending, rec)
		b.log.Warn("journal delivery failed, queued for retry",
			zap.String("trade_id", rec.TradeID),
			zap.Error(err))
		return err
	}
	return nil
}

// Flush retries queued records in order, stopping at the first failure so
// delivery order is preserved. Returns the number still pending.
func (b *Bridge) Flush() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.pending) > 0 {
		rec := b.pending[0]
		if err := b.dest.RecordTrade(rec); err != nil {
			b.log.Warn("journal retry failed",
				zap.String("trade_id", rec.TradeID),
				zap.Int("pending", len(b.pending)),
				zap.Error(err))
			break
		}
		b.pending = b.pending[1:]
	}
	return len(b.pending)
}

// Pending reports how many records await redelivery.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Close flushes one last time and closes the backend.
func (b *Bridge) Close() error {
	b.Flush()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dest.Close()
}
