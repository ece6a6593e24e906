package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	txEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	txEntropyMu sync.Mutex
)

// NewTransactionID returns a ULID. IDs minted by one process sort in creation
// order, which the ledger uses to break event_time ties.
func NewTransactionID() string {
	txEntropyMu.Lock()
	defer txEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), txEntropy).String()
}
