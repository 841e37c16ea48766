package ledger

import "time"

// State is a deep-copied, serializable image of everything a persistence
// sink must mirror: the open-position map, the closed archive, the
// entry-time index and the settlement history.
type State struct {
	Open        []Position                  `json:"open"`
	Closed      []Position                  `json:"closed"`
	EntryTimes  map[string]time.Time        `json:"entry_times"`
	Settlements map[string]SettlementRecord `json:"settlements"`
}

// Snapshot copies the full ledger state out. Sinks call this from their
// notification callback; the copy is consistent because mutations hold the
// ledger lock while they run.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := State{
		Open:        make([]Position, 0, len(l.open)),
		Closed:      make([]Position, 0, len(l.closed)),
		EntryTimes:  make(map[string]time.Time, len(l.entryTimes)),
		Settlements: make(map[string]SettlementRecord, len(l.settlements)),
	}
	for _, pos := range l.open {
		st.Open = append(st.Open, *pos.Clone())
	}
	for _, pos := range l.closed {
		st.Closed = append(st.Closed, *pos.Clone())
	}
	for tradeID, t := range l.entryTimes {
		st.EntryTimes[tradeID] = t
	}
	for eventID, rec := range l.settlements {
		st.Settlements[eventID] = *rec.clone()
	}
	return st
}

// Restore replaces the ledger's state with a previously persisted snapshot.
// Meant for startup; it does not notify subscribers.
func (l *Ledger) Restore(st State) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.open = make(map[Key]*Position, len(st.Open))
	for i := range st.Open {
		pos := st.Open[i].Clone()
		l.open[pos.Key()] = pos
	}
	l.closed = make([]*Position, 0, len(st.Closed))
	for i := range st.Closed {
		l.closed = append(l.closed, st.Closed[i].Clone())
	}
	l.entryTimes = make(map[string]time.Time, len(st.EntryTimes))
	for tradeID, t := range st.EntryTimes {
		l.entryTimes[tradeID] = t
	}
	l.settlements = make(map[string]*SettlementRecord, len(st.Settlements))
	for eventID := range st.Settlements {
		rec := st.Settlements[eventID]
		l.settlements[eventID] = rec.clone()
	}
}
