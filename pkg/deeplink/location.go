package deeplink

import (
	"errors"
	"sync"
)

// ErrLocationDisabled is returned by a MemoryLocation switched to fail.
var ErrLocationDisabled = errors.New("location writes disabled")

// MemoryLocation is an in-process ports.Location. Hosts without a real
// address bar (CLI, tests, per-request HTTP handling) use it.
type MemoryLocation struct {
	mu       sync.Mutex
	fragment string
	writes   int
	fail     bool
}

// NewMemoryLocation returns a location holding fragment.
func NewMemoryLocation(fragment string) *MemoryLocation {
	return &MemoryLocation{fragment: fragment}
}

// Fragment returns the held fragment. It never fails.
func (l *MemoryLocation) Fragment() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fragment, nil
}

// ReplaceFragment overwrites the fragment, or returns ErrLocationDisabled
// after SetFailing(true).
func (l *MemoryLocation) ReplaceFragment(fragment string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return ErrLocationDisabled
	}
	l.fragment = fragment
	l.writes++
	return nil
}

// Navigate simulates the user editing the address or using history buttons.
func (l *MemoryLocation) Navigate(fragment string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fragment = fragment
}

// SetFailing makes subsequent writes fail.
func (l *MemoryLocation) SetFailing(fail bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail = fail
}

// Writes counts successful ReplaceFragment calls.
func (l *MemoryLocation) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}
