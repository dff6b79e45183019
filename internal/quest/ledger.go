package quest

import (
	"sync"
	"time"
)

// Ledger tracks the last completion time of each quest for the current
// session. It grows only through Complete and is cleared only wholesale via
// Reset, never per entry. Nothing here is persisted.
type Ledger struct {
	mu          sync.Mutex
	completions map[string]time.Time
}

func NewLedger() *Ledger {
	return &Ledger{completions: make(map[string]time.Time)}
}

// Complete records a completion event for the quest. A timestamp in the
// future is clamped to at most the current clock so cooldown math never sees
// a future completion.
func (l *Ledger) Complete(id string, at time.Time) {
	if now := time.Now(); at.After(now) {
		at = now
	}
	l.mu.Lock()
	l.completions[id] = at
	l.mu.Unlock()
}

// LastCompletion returns the quest's last completion time, if any.
func (l *Ledger) LastCompletion(id string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	at, ok := l.completions[id]
	return at, ok
}

// Reset clears the entire ledger.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.completions = make(map[string]time.Time)
	l.mu.Unlock()
}

// Len returns the number of recorded completions.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.completions)
}
