// Package store mirrors ledger state into a local Pebble database.
//
// The sink is a ledger subscriber: after every mutation it re-reads the full
// state snapshot and rewrites it. Persistence is eventual, not transactional;
// a failed write never touches the in-memory ledger, and the sink's quota
// policy evicts the oldest archived records and retries once before giving
// up on that notification.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"github.com/rustyeddy/posledger/ledger"
)

// keys: st:open, st:closed, st:entries, st:settle
func kOpen() []byte        { return []byte("st:open") }
func kClosed() []byte      { return []byte("st:closed") }
func kEntries() []byte     { return []byte("st:entries") }
func kSettlements() []byte { return []byte("st:settle") }

// Sink persists ledger snapshots to Pebble.
type Sink struct {
	db  *pebble.DB
	log *zap.Logger

	mu      sync.Mutex
	lastErr error
}

func Open(path string, log *zap.Logger) (*Sink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", path, err)
	}
	return &Sink{db: db, log: log}, nil
}

func (s *Sink) Close() error { return s.db.Close() }

// Attach loads any persisted state into l, then subscribes the mirror
// callback. Returns the unsubscribe function.
func (s *Sink) Attach(l *ledger.Ledger) (func(), error) {
	st, found, err := s.Load()
	if err != nil {
		return nil, err
	}
	if found {
		l.Restore(st)
	}

	unsubscribe := l.Subscribe(func() {
		s.Persist(l.Snapshot())
	})
	return unsubscribe, nil
}

// Load reads the last persisted snapshot. found is false on an empty store.
func (s *Sink) Load() (st ledger.State, found bool, err error) {
	okOpen, err := s.getJSON(kOpen(), &st.Open)
	if err != nil {
		return st, false, err
	}
	okClosed, err := s.getJSON(kClosed(), &st.Closed)
	if err != nil {
		return st, false, err
	}
	okEntries, err := s.getJSON(kEntries(), &st.EntryTimes)
	if err != nil {
		return st, false, err
	}
	okSettle, err := s.getJSON(kSettlements(), &st.Settlements)
	if err != nil {
		return st, false, err
	}

	return st, okOpen || okClosed || okEntries || okSettle, nil
}

func (s *Sink) getJSON(key []byte, out any) (found bool, err error) {
	val, closer, err := s.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	defer closer.Close()

	if err := json.Unmarshal(val, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Persist writes the snapshot. On failure it applies the quota policy
// (evict oldest closed trades and oldest undone settlement records) and
// retries once; a second failure is logged and kept as the sink's last
// error. The ledger's in-memory state is correct regardless.
func (s *Sink) Persist(st ledger.State) error {
	err := s.write(st)
	if err == nil {
		s.setErr(nil)
		return nil
	}

	s.log.Warn("persist failed, evicting oldest archived records and retrying",
		zap.Error(err))

	evicted := evictOldest(&st)
	if retryErr := s.write(st); retryErr != nil {
		s.log.Error("persist retry failed",
			zap.Int("evicted", evicted),
			zap.Error(retryErr))
		s.setErr(retryErr)
		return retryErr
	}
	s.setErr(nil)
	return nil
}

func (s *Sink) write(st ledger.State) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	for _, kv := range []struct {
		key []byte
		val any
	}{
		{kOpen(), st.Open},
		{kClosed(), st.Closed},
		{kEntries(), st.EntryTimes},
		{kSettlements(), st.Settlements},
	} {
		data, err := json.Marshal(kv.val)
		if err != nil {
			return fmt.Errorf("encode %s: %w", kv.key, err)
		}
		if err := batch.Set(kv.key, data, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

// Err returns the last persistence error, nil once a later write succeeds.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Sink) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// evictOldest drops the oldest half of the closed archive and the oldest
// half of the already-undone settlement records from the snapshot about to
// be written. Open positions and live (undoable) settlements are never
// evicted. Returns the number of records dropped.
func evictOldest(st *ledger.State) int {
	evicted := 0

	if n := len(st.Closed); n > 0 {
		keep := n / 2
		evicted += n - keep
		st.Closed = st.Closed[n-keep:]
	}

	var undone []string
	for eventID, rec := range st.Settlements {
		if rec.Undone {
			undone = append(undone, eventID)
		}
	}
	sort.Slice(undone, func(i, j int) bool {
		return st.Settlements[undone[i]].CreatedAt.Before(st.Settlements[undone[j]].CreatedAt)
	})
	for _, eventID := range undone[:len(undone)/2+len(undone)%2] {
		delete(st.Settlements, eventID)
		evicted++
	}

	return evicted
}
