// Package ledger tracks open trading positions per symbol, side and tenant.
//
// Entries accumulate cost-basis lots, settlements consume lots oldest-first
// and realize PnL at the consumed lot prices, corrections retract entries
// newest-first without realizing a trade, and every settlement can be undone
// exactly once through its recorded exit-event id.
//
// A Ledger is a synchronous in-memory structure guarded by a single mutex:
// cross-position checks such as tenant isolation need a consistent view, so
// locking is per ledger, not per position. Persistence and notification are
// side effects fired after the mutation commits; subscribers re-read state
// through the query operations and must tolerate being ahead of whatever
// they last persisted.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/posledger/pkg/id"
)

// Ledger owns the open-position map, the closed archive, the entry-time
// index and the settlement history. Construct with New; the zero value is
// not usable.
type Ledger struct {
	mu          sync.Mutex
	open        map[Key]*Position
	closed      []*Position
	entryTimes  map[string]time.Time
	settlements map[string]*SettlementRecord
	subs        []*subscriber

	now   func() time.Time
	newID func() string
}

type subscriber struct {
	fn func()
}

// Option configures a Ledger at construction.
type Option func(*Ledger)

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDSource replaces trade-id generation, for deterministic tests.
func WithIDSource(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

// New returns an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		open:        make(map[Key]*Position),
		entryTimes:  make(map[string]time.Time),
		settlements: make(map[string]*SettlementRecord),
		now:         time.Now,
		newID:       id.New,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe registers a mutation listener and returns its unsubscribe
// function. Listeners take no arguments; they re-read state through the
// query operations. All listeners registered at the time of a mutating call
// are invoked once, in registration order, before that call returns.
func (l *Ledger) Subscribe(fn func()) (unsubscribe func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sub := &subscriber{fn: fn}
	l.subs = append(l.subs, sub)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, s := range l.subs {
			if s == sub {
				l.subs = append(l.subs[:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

// listenersLocked snapshots the subscriber list so callbacks run outside the
// lock; listeners re-enter the ledger through queries.
func (l *Ledger) listenersLocked() []func() {
	fns := make([]func(), len(l.subs))
	for i, s := range l.subs {
		fns[i] = s.fn
	}
	return fns
}

func fire(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// EnterOption annotates an entry fill.
type EnterOption func(*Meta)

// WithName attaches a display name to the position.
func WithName(name string) EnterOption {
	return func(m *Meta) { m.Name = name }
}

// WithNote attaches a free-form note.
func WithNote(note string) EnterOption {
	return func(m *Meta) { m.Note = note }
}

// WithPattern attaches a chart-pattern tag.
func WithPattern(pattern string) EnterOption {
	return func(m *Meta) { m.Pattern = pattern }
}

// Enter records an entry fill of qty shares at price. The first fill for a
// key creates the position with a fresh trade id whose entry time is kept
// for hold-duration computation at close. Returns a copy of the mutated
// position.
func (l *Ledger) Enter(symbol string, side Side, price decimal.Decimal, qty int64, tenantID string, opts ...EnterOption) (*Position, error) {
	if !price.IsPositive() {
		return nil, &InputError{Field: "price", Reason: "must be positive"}
	}
	if qty <= 0 {
		return nil, &InputError{Field: "qty", Reason: "must be a positive integer"}
	}
	if tenantID == "" {
		tenantID = DefaultTenant
	}

	l.mu.Lock()
	now := l.now()
	key := Key{Symbol: symbol, Side: side, TenantID: tenantID}

	pos, ok := l.open[key]
	if !ok {
		pos = &Position{
			Symbol:   symbol,
			Side:     side,
			TenantID: tenantID,
			AvgPrice: decimal.Zero,
			TradeID:  l.newID(),
			Version:  1,
		}
		l.entryTimes[pos.TradeID] = now
		l.open[key] = pos
	}

	for _, opt := range opts {
		if pos.Meta == nil {
			pos.Meta = &Meta{}
		}
		opt(pos.Meta)
	}

	pos.AvgPrice = WeightedAverage(pos.QtyTotal, pos.AvgPrice, qty, price)
	pos.Lots = append(pos.Lots, Lot{Price: price, QtyRemaining: qty, OpenedAt: now})
	pos.QtyTotal += qty
	pos.EnteredQty += qty
	pos.Version++
	pos.UpdatedAt = now

	out := pos.Clone()
	fns := l.listenersLocked()
	l.mu.Unlock()

	fire(fns)
	return out, nil
}

// CorrectEntry retracts up to qty shares of a prior entry, consuming the
// newest lots first: a correction targets "the entry I just made", while a
// settlement realizes the oldest inventory first. The average price is
// recomputed by subtracting the retracted notional at lotPrice rather than
// re-averaging the surviving lots. A position emptied by a correction is
// deleted without a trade snapshot. Returns false when qty is non-positive
// or no open position matches.
func (l *Ledger) CorrectEntry(symbol string, side Side, lotPrice decimal.Decimal, qty int64, tenantID string) bool {
	if qty <= 0 {
		return false
	}
	if tenantID == "" {
		tenantID = DefaultTenant
	}

	l.mu.Lock()
	key := Key{Symbol: symbol, Side: side, TenantID: tenantID}
	pos, ok := l.open[key]
	if !ok {
		l.mu.Unlock()
		return false
	}

	oldNotional := pos.AvgPrice.Mul(decimal.NewFromInt(pos.QtyTotal))

	removed := int64(0)
	remaining := qty
	for i := len(pos.Lots) - 1; i >= 0 && remaining > 0; i-- {
		take := pos.Lots[i].QtyRemaining
		if take > remaining {
			take = remaining
		}
		pos.Lots[i].QtyRemaining -= take
		removed += take
		remaining -= take
		if pos.Lots[i].QtyRemaining == 0 {
			pos.Lots = pos.Lots[:i]
		}
	}

	pos.QtyTotal -= removed
	pos.EnteredQty -= removed
	if pos.EnteredQty < 0 {
		pos.EnteredQty = 0
	}

	if pos.QtyTotal > 0 {
		newNotional := oldNotional.Sub(lotPrice.Mul(decimal.NewFromInt(removed)))
		if newNotional.IsNegative() {
			newNotional = decimal.Zero
		}
		pos.AvgPrice = newNotional.Div(decimal.NewFromInt(pos.QtyTotal))
	} else {
		// A correction is not a realized trade: no snapshot, no archive.
		delete(l.entryTimes, pos.TradeID)
		delete(l.open, key)
	}
	pos.Version++
	pos.UpdatedAt = l.now()

	fns := l.listenersLocked()
	l.mu.Unlock()

	fire(fns)
	return true
}

// Settle consumes qty shares at price from the position's lots, oldest
// first, realizing PnL at each consumed lot's price. The average price is
// left untouched while shares remain. When the settlement empties the
// position it is removed from the open map, archived, and a TradeSnapshot
// is built when the trade's entry time is on record.
//
// A successful Settle must be followed by RecordSettlement with the caller's
// exit-event id; the two steps are deliberately not atomic (see package
// docs), and a failed record step leaves the ledger correct but the
// settlement un-undoable.
func (l *Ledger) Settle(symbol string, side Side, price decimal.Decimal, qty int64, tenantID string) (SettleResult, error) {
	if !price.IsPositive() {
		return SettleResult{}, &InputError{Field: "price", Reason: "must be positive"}
	}
	if qty <= 0 {
		return SettleResult{}, &InputError{Field: "qty", Reason: "must be a positive integer"}
	}
	if tenantID == "" {
		tenantID = DefaultTenant
	}

	l.mu.Lock()
	key := Key{Symbol: symbol, Side: side, TenantID: tenantID}
	pos, ok := l.open[key]
	if !ok {
		// Checked ahead of not-found so cross-tenant attempts are
		// distinguishable in diagnostics.
		if holder, held := l.heldByOtherLocked(symbol, side, tenantID); held {
			l.mu.Unlock()
			return SettleResult{}, &TenantMismatchError{Symbol: symbol, Side: side, Tenant: tenantID, HeldBy: holder}
		}
		l.mu.Unlock()
		return SettleResult{}, ErrNotFound
	}
	if qty > pos.QtyTotal {
		held := pos.QtyTotal
		l.mu.Unlock()
		return SettleResult{}, &OverSettlementError{Requested: qty, Held: held}
	}

	now := l.now()
	preAvg := pos.AvgPrice

	realized := decimal.Zero
	matched := make([]MatchedLot, 0, 2)
	remaining := qty
	for remaining > 0 {
		lot := &pos.Lots[0]
		take := lot.QtyRemaining
		if take > remaining {
			take = remaining
		}
		realized = realized.Add(LotPnl(side, lot.Price, price, take))
		matched = append(matched, MatchedLot{LotPrice: lot.Price, Qty: take})
		lot.QtyRemaining -= take
		remaining -= take
		if lot.QtyRemaining == 0 {
			pos.Lots = pos.Lots[1:]
		}
	}

	pos.QtyTotal -= qty
	pos.RealizedPnl = pos.RealizedPnl.Add(realized)
	pos.ExitQty += qty
	pos.ExitNotional = pos.ExitNotional.Add(price.Mul(decimal.NewFromInt(qty)))
	pos.Version++
	pos.UpdatedAt = now

	res := SettleResult{RealizedPnl: realized, MatchedLots: matched}

	if pos.QtyTotal == 0 {
		if entryTime, known := l.entryTimes[pos.TradeID]; known {
			res.Snapshot = l.buildSnapshotLocked(pos, preAvg, now, entryTime)
			delete(l.entryTimes, pos.TradeID)
		}
		pos.AvgPrice = decimal.Zero
		delete(l.open, key)
		l.closed = append(l.closed, pos)
	} else {
		res.Position = pos.Clone()
	}

	fns := l.listenersLocked()
	l.mu.Unlock()

	fire(fns)
	return res, nil
}

// heldByOtherLocked reports whether some other tenant holds the symbol/side.
func (l *Ledger) heldByOtherLocked(symbol string, side Side, tenantID string) (holder string, held bool) {
	for key := range l.open {
		if key.Symbol == symbol && key.Side == side && key.TenantID != tenantID {
			return key.TenantID, true
		}
	}
	return "", false
}

func (l *Ledger) buildSnapshotLocked(pos *Position, avgEntry decimal.Decimal, now, entryTime time.Time) *TradeSnapshot {
	avgExit := decimal.Zero
	if pos.ExitQty > 0 {
		avgExit = pos.ExitNotional.Div(decimal.NewFromInt(pos.ExitQty))
	}
	pnlPct := decimal.Zero
	if basis := avgEntry.Mul(decimal.NewFromInt(pos.EnteredQty)); basis.IsPositive() {
		pnlPct = pos.RealizedPnl.Div(basis).Mul(decimal.NewFromInt(100))
	}
	return &TradeSnapshot{
		TradeID:      pos.TradeID,
		TenantID:     pos.TenantID,
		Symbol:       pos.Symbol,
		Side:         pos.Side,
		AvgEntry:     avgEntry,
		AvgExit:      avgExit,
		Qty:          pos.EnteredQty,
		PnlAbs:       pos.RealizedPnl,
		PnlPct:       pnlPct,
		HoldDuration: now.Sub(entryTime),
		ClosedAt:     now,
	}
}

// RecordSettlement stores rec under the caller's exit-event id. A duplicate
// id overwrites the prior record; the settle and record steps are a two-step
// protocol and the caller owns retrying this one.
func (l *Ledger) RecordSettlement(exitEventID string, rec SettlementRecord) {
	l.mu.Lock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now()
	}
	l.settlements[exitEventID] = &rec

	fns := l.listenersLocked()
	l.mu.Unlock()

	fire(fns)
}

// GetSettlementRecord returns a copy of the record for the exit-event id.
func (l *Ledger) GetSettlementRecord(exitEventID string) (SettlementRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.settlements[exitEventID]
	if !ok {
		return SettlementRecord{}, false
	}
	return *rec.clone(), true
}

// Unsettle reverses the settlement recorded under exitEventID. It is
// idempotent: false means nothing to do, either because no record exists or
// because the record was already undone, and nothing changes. On success the
// matched lots are restored (resurrecting the position if the settlement had
// fully closed it), the record's realized PnL is backed out, the average
// price is recomputed as the true weighted average over the restored
// inventory, and at most one matching closed-archive entry is removed.
func (l *Ledger) Unsettle(exitEventID string) bool {
	l.mu.Lock()

	rec, ok := l.settlements[exitEventID]
	if !ok || rec.Undone {
		l.mu.Unlock()
		return false
	}

	now := l.now()
	key := Key{Symbol: rec.Symbol, Side: rec.Side, TenantID: rec.TenantID}

	pos, open := l.open[key]
	var archived *Position
	if !open {
		// The position fully closed after this settlement: resurrect it
		// under a new trade id, carrying the archived close's accumulated
		// state so PnL realized by earlier partial settlements survives.
		archived = l.popClosedLocked(key)
		pos = &Position{
			Symbol:   rec.Symbol,
			Side:     rec.Side,
			TenantID: rec.TenantID,
			AvgPrice: decimal.Zero,
			TradeID:  l.newID(),
			Version:  1,
		}
		if archived != nil {
			pos.RealizedPnl = archived.RealizedPnl
			pos.EnteredQty = archived.EnteredQty
			pos.ExitQty = archived.ExitQty
			pos.ExitNotional = archived.ExitNotional
			pos.Meta = archived.Meta
		}
		l.entryTimes[pos.TradeID] = now
		l.open[key] = pos
	}

	// Restored lots go back to the front: settlement consumed the oldest
	// inventory, and a later settlement must see it first again.
	restoredLots := make([]Lot, 0, len(rec.MatchedLots))
	restored := int64(0)
	for _, ml := range rec.MatchedLots {
		restoredLots = append(restoredLots, Lot{Price: ml.LotPrice, QtyRemaining: ml.Qty, OpenedAt: rec.CreatedAt})
		restored += ml.Qty
	}
	pos.Lots = append(restoredLots, pos.Lots...)

	// The one case where the average is fully recomputed: the shape of the
	// remaining inventory may have changed since the settlement.
	qtyTotal := int64(0)
	notional := decimal.Zero
	for _, lot := range pos.Lots {
		qtyTotal += lot.QtyRemaining
		notional = notional.Add(lot.Price.Mul(decimal.NewFromInt(lot.QtyRemaining)))
	}
	pos.QtyTotal = qtyTotal
	if qtyTotal > 0 {
		pos.AvgPrice = notional.Div(decimal.NewFromInt(qtyTotal))
	} else {
		pos.AvgPrice = decimal.Zero
	}

	pos.RealizedPnl = pos.RealizedPnl.Sub(rec.RealizedPnl)
	pos.ExitQty -= rec.ExitQty
	if pos.ExitQty < 0 {
		pos.ExitQty = 0
	}
	pos.ExitNotional = pos.ExitNotional.Sub(rec.ExitPrice.Mul(decimal.NewFromInt(rec.ExitQty)))
	if pos.ExitNotional.IsNegative() {
		pos.ExitNotional = decimal.Zero
	}
	if !open && archived == nil {
		// No archived close to seed from (partial restored state); the
		// restored quantity is the best available entered total.
		pos.EnteredQty = restored
	}
	pos.Version++
	pos.UpdatedAt = now

	rec.Undone = true

	fns := l.listenersLocked()
	l.mu.Unlock()

	fire(fns)
	return true
}

// popClosedLocked removes and returns at most one archived close for the
// key, newest first, so unrelated historical closes are never revived.
func (l *Ledger) popClosedLocked(key Key) *Position {
	for i := len(l.closed) - 1; i >= 0; i-- {
		if l.closed[i].Key() == key {
			pos := l.closed[i]
			l.closed = append(l.closed[:i], l.closed[i+1:]...)
			return pos
		}
	}
	return nil
}

// Groups returns the tenant's open positions grouped by symbol. An empty
// tenant id resolves to DefaultTenant, never to all tenants. Positions are
// copies, sorted long before short within a symbol.
func (l *Ledger) Groups(tenantID string) map[string][]*Position {
	if tenantID == "" {
		tenantID = DefaultTenant
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	groups := make(map[string][]*Position)
	for key, pos := range l.open {
		if key.TenantID != tenantID {
			continue
		}
		groups[key.Symbol] = append(groups[key.Symbol], pos.Clone())
	}
	for _, positions := range groups {
		sort.Slice(positions, func(i, j int) bool {
			return positions[i].Side < positions[j].Side
		})
	}
	return groups
}

// LongShortQty reports the tenant's held quantity on each side of a symbol.
// A missing side reports zero.
func (l *Ledger) LongShortQty(symbol, tenantID string) (long, short int64) {
	if tenantID == "" {
		tenantID = DefaultTenant
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if pos, ok := l.open[Key{Symbol: symbol, Side: Long, TenantID: tenantID}]; ok {
		long = pos.QtyTotal
	}
	if pos, ok := l.open[Key{Symbol: symbol, Side: Short, TenantID: tenantID}]; ok {
		short = pos.QtyTotal
	}
	return long, short
}
