package sim

import "sync"

// Indicator records the activity LED level.
type Indicator struct {
	mu          sync.Mutex
	lit         bool
	transitions int
}

// Set implements hal.Indicator.
func (l *Indicator) Set(on bool) {
	l.mu.Lock()
	if on != l.lit {
		l.transitions++
	}
	l.lit = on
	l.mu.Unlock()
}

// Lit reports the current level.
func (l *Indicator) Lit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lit
}

// Transitions counts level changes since creation.
func (l *Indicator) Transitions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transitions
}
