package analyzer

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// passIDs hands out monotonic ULIDs tagging each analyzer pass in logs.
type passIDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newPassIDs() *passIDs {
	return &passIDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (p *passIDs) next() ulid.ULID {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), p.entropy)
	if err != nil {
		// Monotonic entropy only fails once a millisecond's sequence
		// overflows; fall back to a fresh random id.
		return ulid.Make()
	}
	return id
}
