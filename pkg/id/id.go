// Package id generates trade identifiers.
//
// Trade ids are ULIDs: lexicographically sortable by generation time, which
// keeps journal rows and key-value store keys in chronological order for
// free.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed the entropy source from crypto/rand; ulid.Monotonic keeps ids
	// generated within the same millisecond strictly increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a fresh ULID string.
func New() string {
	return NewAt(time.Now().UTC())
}

// NewAt returns a ULID whose time component is t. Used by tests that need
// reproducible ordering.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	out, err := ulid.New(ulid.Timestamp(t), mono)
	if err != nil {
		// Only possible if time runs backwards past the ULID epoch or the
		// entropy reader fails.
		panic(err)
	}
	return out.String()
}
