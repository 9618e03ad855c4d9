package symbols

import (
	"slices"
	"sync"
)

// Accumulator collects unique (symbol, file) pairs across inputs.
// It lives as long as the caller keeps it; there is no global state.
// Safe for concurrent use.
type Accumulator struct {
	mu         sync.Mutex
	seen       map[Entry]struct{}
	order      []Entry
	duplicates int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{seen: make(map[Entry]struct{})}
}

// Add records e and reports whether it was new.
func (a *Accumulator) Add(e Entry) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.seen[e]; ok {
		a.duplicates++
		return false
	}
	a.seen[e] = struct{}{}
	a.order = append(a.order, e)
	return true
}

// Len returns the number of unique entries.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.order)
}

// Duplicates returns how many entries Add rejected.
func (a *Accumulator) Duplicates() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duplicates
}

// Entries returns the unique entries in first-seen order.
func (a *Accumulator) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.order)
}

// Index builds a lookup index from the collected entries.
func (a *Accumulator) Index() *Index {
	return NewIndex(a.Entries())
}
